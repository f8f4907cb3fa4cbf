package optimize

import (
	"context"

	"github.com/antigravity/ourroad-optimizer/internal/config"
	"github.com/antigravity/ourroad-optimizer/internal/providers"
)

// EnrichedMatrix is the read-only result of EnrichDistanceMatrixWithTransit.
// When a transit provider and at least one leg are given, Base is a deep
// copy of the source matrix with transit details filled in; otherwise
// Base is the source matrix itself. The source matrix is never mutated
// (spec.md §9's anti-pattern note).
type EnrichedMatrix struct {
	Base *DistanceMatrix
}

// Get delegates straight to the base matrix. Polylines and transit
// details are read through Base's Polyline() and TransitDetail().
func (e *EnrichedMatrix) Get(from, to string) (distance, duration float64, mode TransportMode, ok bool) {
	return e.Base.Get(from, to)
}

// EnrichDistanceMatrixWithTransit re-resolves the public-transit legs named
// in legs (the output of ExtractRouteSegments) through the transit
// provider to recover rich sub-path detail (fare, transfer count, per-leg
// traffic type), without touching src's own cells. Per spec.md §4.7, this
// is deliberately scoped to legs that survive into the final itinerary
// rather than the full pre-optimization node grid, since the transit
// provider's quota is far tighter than the car provider's the matrix
// builder already leaned on. Legs under cfg.EnrichWalkingThresholdMeters
// are left exactly as the source matrix already has them, since the
// matrix builder already downgraded those to walking.
func EnrichDistanceMatrixWithTransit(
	ctx context.Context,
	src *DistanceMatrix,
	legs [][2]string,
	byID map[string]*OptimizeNode,
	transit providers.TransitRoutingProvider,
	cfg *config.Config,
) *EnrichedMatrix {
	if transit == nil || len(legs) == 0 {
		return &EnrichedMatrix{Base: src}
	}

	enriched := cloneMatrix(src)

	for _, pair := range legs {
		from, to := pair[0], pair[1]
		i, iok := enriched.index[from]
		j, jok := enriched.index[to]
		if !iok || !jok || enriched.Modes[i][j] != ModePublic {
			continue
		}
		a, aok := byID[from]
		b, bok := byID[to]
		if !aok || !bok {
			continue
		}
		dist := HaversineMeters(a.Coordinate, b.Coordinate)
		if dist <= cfg.EnrichWalkingThresholdMeters {
			continue
		}
		origin := providers.LatLng{Lat: a.Coordinate.Lat, Lng: a.Coordinate.Lng}
		destination := providers.LatLng{Lat: b.Coordinate.Lat, Lng: b.Coordinate.Lng}
		route, err := providers.TryOrNull(ctx, cfg.MaxAttempts, cfg.CallTimeout, func(ctx context.Context) (providers.TransitRoute, error) {
			return transit.GetBestTransitRoute(ctx, origin, destination)
		})
		if err != nil || route == nil {
			continue
		}
		enriched.TransitDetails[i][j] = fromProviderTransitDetail(route.Details)
	}

	return &EnrichedMatrix{Base: enriched}
}

// cloneMatrix performs a deep copy of m's slices so enrichment never
// shares backing arrays with its source.
func cloneMatrix(m *DistanceMatrix) *DistanceMatrix {
	n := len(m.Places)
	out := &DistanceMatrix{
		Places:         append([]string(nil), m.Places...),
		index:          make(map[string]int, n),
		Distances:      make([][]float64, n),
		Durations:      make([][]float64, n),
		Modes:          make([][]TransportMode, n),
		Polylines:      make([][]string, n),
		TransitDetails: make([][]*TransitDetails, n),
	}
	for id, i := range m.index {
		out.index[id] = i
	}
	for i := 0; i < n; i++ {
		out.Distances[i] = append([]float64(nil), m.Distances[i]...)
		out.Durations[i] = append([]float64(nil), m.Durations[i]...)
		out.Modes[i] = append([]TransportMode(nil), m.Modes[i]...)
		out.Polylines[i] = append([]string(nil), m.Polylines[i]...)
		out.TransitDetails[i] = append([]*TransitDetails(nil), m.TransitDetails[i]...)
	}
	return out
}

// ExtractRouteSegments reduces a trip's per-day stop sequences down to the
// distinct (from, to) leg pairs that are actually traveled: the day's
// start endpoint to its first place, each consecutive place to the next,
// and the last place to the day's end endpoint, deduplicated across every
// day in the trip. Per spec.md §4.7, this is what scopes
// EnrichDistanceMatrixWithTransit's transit-provider calls to legs that
// survive into the final itinerary instead of the full pre-optimization
// node grid.
func ExtractRouteSegments(plans []dayPlan, endpoints []DayEndpoint, byID map[string]*OptimizeNode) [][2]string {
	seen := make(map[[2]string]bool)
	var pairs [][2]string
	add := func(from, to string) {
		if from == "" || to == "" || from == to {
			return
		}
		key := [2]string{from, to}
		if seen[key] {
			return
		}
		seen[key] = true
		pairs = append(pairs, key)
	}

	for i, plan := range plans {
		if i >= len(endpoints) {
			break
		}
		endpoint := endpoints[i]
		ordered := sortByFixedStartTime(plan.nodes, byID)
		if len(ordered) == 0 {
			add(endpoint.StartID, endpoint.EndID)
			continue
		}
		prev := endpoint.StartID
		for _, id := range ordered {
			add(prev, id)
			prev = id
		}
		add(prev, endpoint.EndID)
	}
	return pairs
}
