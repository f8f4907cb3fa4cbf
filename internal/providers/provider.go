// Package providers defines the external routing collaborators the
// optimization engine consumes (spec.md §6): car routing, transit
// routing, and walking routing. The engine never talks to an HTTP
// endpoint directly — it only depends on these thin interfaces, grounded
// on googlemaps-google-maps-services-go/directions.go's context-aware
// typed-request client shape and Nobina-go-trafiklab/client.go's
// functional-options constructor.
package providers

import (
	"context"
	"errors"
)

// ErrAllAttemptsFailed marks a provider call exhausting its retry budget
// with no underlying error attached (defensive fallback; TryOrNull always
// prefers to propagate the real last error when one exists).
var ErrAllAttemptsFailed = errors.New("providers: all attempts failed")

// ErrNoLocalRoute marks LocalScheduleTransitProvider finding no journey in
// its synthesized network (should not normally happen for a direct
// two-stop line, but the search can fail if the service window excludes
// the current time of day).
var ErrNoLocalRoute = errors.New("providers: no local transit route found")

// LatLng is a WGS84 coordinate, kept independent of the optimize
// package's Coordinate type so this package has no domain dependency.
type LatLng struct {
	Lat float64
	Lng float64
}

// CarRoute is the car-routing provider's response shape.
type CarRoute struct {
	DistanceMeters  float64
	DurationMinutes float64
	Polyline        string
}

// WalkRoute is the pedestrian-routing provider's response shape.
type WalkRoute struct {
	DistanceMeters  float64
	DurationMinutes float64
	Polyline        string
}

// Lane describes the transit line serving a sub-path.
type Lane struct {
	Name       string
	BusNo      string
	BusType    string
	SubwayCode string
	LineColor  string
}

// TransitSubPath is one homogeneous portion of a transit route.
type TransitSubPath struct {
	TrafficType    int
	Distance       float64
	SectionTime    float64
	StationCount   int
	StartName      string
	EndName        string
	Polyline       string
	Lane           *Lane
	StartCoord     *LatLng
	EndCoord       *LatLng
	PassStopCoords []LatLng
}

// TransitDetail is the rich sub-path breakdown of a transit route.
type TransitDetail struct {
	TotalFare       float64
	TransferCount   int
	WalkingTime     float64
	WalkingDistance float64
	SubPaths        []TransitSubPath
}

// TransitRoute is the transit-routing provider's response shape.
type TransitRoute struct {
	DistanceMeters  float64
	DurationMinutes float64
	Polyline        string
	Details         TransitDetail
}

// CarRoutingProvider resolves a single best car route between two points.
type CarRoutingProvider interface {
	GetCarRoute(ctx context.Context, origin, destination LatLng) (CarRoute, error)
}

// TransitRoutingProvider resolves the best (shortest-duration or
// fewest-transfers) public-transit route between two points.
type TransitRoutingProvider interface {
	GetBestTransitRoute(ctx context.Context, origin, destination LatLng) (TransitRoute, error)
}

// WalkingRoutingProvider resolves a pedestrian route between two points.
type WalkingRoutingProvider interface {
	GetWalkingRoute(ctx context.Context, origin, destination LatLng) (WalkRoute, error)
}
