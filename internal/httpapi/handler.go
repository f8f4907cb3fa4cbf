// Package httpapi exposes the optimization pipeline over HTTP.
//
// Grounded on the teacher's transport_handler.go: a thin struct holding
// its collaborators, one method per route, chi.URLParam for path
// params, and json.NewEncoder/Decoder for the wire format — generalized
// from a read-only transit-lookup API to a create/optimize/fetch
// lifecycle around a single resource (the trip).
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/antigravity/ourroad-optimizer/internal/config"
	"github.com/antigravity/ourroad-optimizer/internal/logging"
	"github.com/antigravity/ourroad-optimizer/internal/optimize"
	"github.com/antigravity/ourroad-optimizer/internal/store"
)

// Handler wires the HTTP surface to the trip store, the optimization
// pipeline's provider set, and a shared configuration/logger.
type Handler struct {
	Store     store.TripStore
	Providers optimize.ProviderSet
	Config    *config.Config
	Log       *logging.Logger
}

func NewHandler(s store.TripStore, ps optimize.ProviderSet, cfg *config.Config, log *logging.Logger) *Handler {
	return &Handler{Store: s, Providers: ps, Config: cfg, Log: log}
}

// Routes mounts every trip endpoint on a fresh chi.Router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/trips", h.CreateTrip)
	r.Post("/trips/{id}/optimize", h.OptimizeTrip)
	r.Get("/trips/{id}/result", h.GetResult)
	return r
}

// CreateTrip stores a trip input, assigning a TripID if the caller left
// it blank, and returns {"trip_id": "..."}.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip optimize.TripInput
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		http.Error(w, "invalid trip payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if trip.TripID == "" {
		trip.TripID = uuid.NewString()
	}

	if err := h.Store.SaveTrip(r.Context(), trip); err != nil {
		h.Log.Error("saving trip %s: %v", trip.TripID, err)
		http.Error(w, "failed to save trip", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"trip_id": trip.TripID})
}

// OptimizeTrip loads a previously saved trip, runs the optimization
// pipeline, persists the result, and returns it.
func (h *Handler) OptimizeTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trip, err := h.Store.GetTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrTripNotFound) {
			http.Error(w, "trip not found", http.StatusNotFound)
			return
		}
		h.Log.Error("loading trip %s: %v", id, err)
		http.Error(w, "failed to load trip", http.StatusInternalServerError)
		return
	}

	result, err := optimize.OptimizeRoute(r.Context(), *trip, h.Providers, h.Config, h.Log.With("pipeline"))
	if err != nil {
		if errors.Is(err, optimize.ErrConstraintViolation) || errors.Is(err, optimize.ErrInvalidInput) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(result)
			return
		}
		h.Log.Error("optimizing trip %s: %v", id, err)
		http.Error(w, "failed to optimize trip", http.StatusInternalServerError)
		return
	}

	if err := h.Store.SaveResult(r.Context(), id, result); err != nil {
		h.Log.Error("saving result for trip %s: %v", id, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetResult returns a trip's most recently computed optimization result.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Store.GetResult(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrTripNotFound) {
			http.Error(w, "no result for this trip yet", http.StatusNotFound)
			return
		}
		h.Log.Error("loading result for trip %s: %v", id, err)
		http.Error(w, "failed to load result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
