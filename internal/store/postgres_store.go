package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/ourroad-optimizer/internal/optimize"
)

// PostgresTripStore persists trips and results as JSONB columns,
// grounded on the teacher's LineRepository: plain pgxpool Query/QueryRow
// calls with explicit Scan destinations, no ORM layer.
type PostgresTripStore struct {
	db *pgxpool.Pool
}

func NewPostgresTripStore(db *pgxpool.Pool) *PostgresTripStore {
	return &PostgresTripStore{db: db}
}

// EnsureSchema creates the trips table if it does not already exist.
// Called once at startup; production deployments are expected to manage
// this via a migration tool instead, but a self-contained CREATE TABLE
// IF NOT EXISTS keeps local/dev setup to a single call.
func (s *PostgresTripStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trips (
			trip_id TEXT PRIMARY KEY,
			input_json JSONB NOT NULL,
			result_json JSONB
		)
	`)
	return err
}

func (s *PostgresTripStore) SaveTrip(ctx context.Context, trip optimize.TripInput) error {
	data, err := json.Marshal(trip)
	if err != nil {
		return fmt.Errorf("store: marshaling trip: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO trips (trip_id, input_json)
		VALUES ($1, $2)
		ON CONFLICT (trip_id) DO UPDATE SET input_json = EXCLUDED.input_json
	`, trip.TripID, data)
	return err
}

func (s *PostgresTripStore) GetTrip(ctx context.Context, tripID string) (*optimize.TripInput, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT input_json FROM trips WHERE trip_id = $1`, tripID).Scan(&raw)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	var trip optimize.TripInput
	if err := json.Unmarshal(raw, &trip); err != nil {
		return nil, fmt.Errorf("store: unmarshaling trip: %w", err)
	}
	return &trip, nil
}

func (s *PostgresTripStore) SaveResult(ctx context.Context, tripID string, result *optimize.OptimizeResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("store: marshaling result: %w", err)
	}
	_, err = s.db.Exec(ctx, `UPDATE trips SET result_json = $2 WHERE trip_id = $1`, tripID, data)
	return err
}

func (s *PostgresTripStore) GetResult(ctx context.Context, tripID string) (*optimize.OptimizeResult, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT result_json FROM trips WHERE trip_id = $1`, tripID).Scan(&raw)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	if raw == nil {
		return nil, ErrTripNotFound
	}
	var result optimize.OptimizeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("store: unmarshaling result: %w", err)
	}
	return &result, nil
}

// IsNoRows reports whether err is pgx's no-rows sentinel, the same
// helper shape the teacher's repository package exposed.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
