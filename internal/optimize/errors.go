package optimize

import "errors"

// Error kinds (spec.md §7). Provider errors never reach this layer — they
// degrade to a Haversine fallback or a mode downgrade inside the matrix
// builder and enricher respectively (see matrix.go, enrich.go).
var (
	// ErrInvalidInput marks a caller contract violation. Fatal: the
	// pipeline aborts before any work is done.
	ErrInvalidInput = errors.New("optimize: invalid input")

	// ErrConstraintViolation marks fixed schedules that conflict with
	// each other or fall outside the trip's date/time bounds. Fatal:
	// reported before any packing (SPEC_FULL.md §4.9).
	ErrConstraintViolation = errors.New("optimize: constraint violation")

	// ErrCancelled marks caller-initiated cancellation.
	ErrCancelled = errors.New("optimize: cancelled")

	// ErrProviderUnavailable marks every configured provider exhausting its
	// retry budget for a leg. Non-fatal at the matrix layer: the builder
	// falls back to a Haversine estimate and keeps going; it only becomes
	// fatal if wrapped and returned by a caller that has no fallback left.
	ErrProviderUnavailable = errors.New("optimize: routing provider unavailable")

	// ErrDailyLimitExceeded marks a day whose scheduled content exceeds the
	// daily time budget. Non-fatal: the pipeline reports each place that
	// does not fit as an EXCEEDS_DAILY_LIMIT entry in OptimizeResult.Errors
	// rather than aborting the whole trip.
	ErrDailyLimitExceeded = errors.New("optimize: daily limit exceeded")
)

// ConstraintError carries validator detail alongside one of the sentinels
// above, so callers can both errors.Is() it and read structured fields.
type ConstraintError struct {
	Code    string
	Message string
	Day     *int
	PlaceID *string
}

func (e *ConstraintError) Error() string {
	return e.Message
}

func (e *ConstraintError) Unwrap() error {
	return ErrConstraintViolation
}

// UnassignedPlaceError describes a single place that could not be fit
// into any day, alongside why, as an error wrapping ErrDailyLimitExceeded.
// The pipeline does not construct it: DistributeToDaily records unplaced
// places as UnassignedPlaceDetail values, which OptimizeRoute converts
// into OptimizeResult.Errors entries.
type UnassignedPlaceError struct {
	PlaceID string
	Name    string
	Reason  string
	Code    string
}

func (e *UnassignedPlaceError) Error() string {
	return "optimize: place " + e.PlaceID + " unassigned: " + e.Reason
}

func (e *UnassignedPlaceError) Unwrap() error {
	return ErrDailyLimitExceeded
}

// invalidInput builds an error wrapping ErrInvalidInput with context.
func invalidInput(reason string) error {
	return &invalidInputError{reason: reason}
}

type invalidInputError struct {
	reason string
}

func (e *invalidInputError) Error() string {
	return "optimize: invalid input: " + e.reason
}

func (e *invalidInputError) Unwrap() error {
	return ErrInvalidInput
}
