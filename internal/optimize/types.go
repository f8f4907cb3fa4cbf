// Package optimize implements the multi-day trip route optimization
// pipeline: node building, distance matrix construction, nearest-neighbor
// route construction, 2-opt improvement, daily distribution, constraint
// validation, and transit enrichment.
package optimize

import "fmt"

// Coordinate is a WGS84 lat/lng pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TransportMode is one of walking, public transit, or car.
type TransportMode string

const (
	ModeWalking TransportMode = "walking"
	ModePublic  TransportMode = "public"
	ModeCar     TransportMode = "car"
)

// Synthetic node IDs used throughout the pipeline.
const (
	NodeOrigin      = "__origin__"
	NodeDestination = "__destination__"
)

// AccommodationNodeID returns the synthetic node ID for the n-th
// accommodation (0-based), e.g. "__accommodation_0__".
func AccommodationNodeID(n int) string {
	return fmt.Sprintf("__accommodation_%d__", n)
}

// OptimizeNode is the homogeneous unit the pipeline operates on: origin,
// destination, POIs, and accommodations are all represented this way.
type OptimizeNode struct {
	ID             string
	Name           string
	Coordinate     Coordinate
	DurationMin    int // stay time; 0 for endpoints/accommodations
	Priority       int // lower is higher priority
	IsFixed        bool
	FixedDate      string // YYYY-MM-DD, empty if unset
	FixedStartTime string // HH:MM, empty if unset
	FixedEndTime   string // HH:MM, empty if unset
}

// DayEndpoint names the synthetic start/end anchor for a given day.
// An empty ID means "no anchor" (the distributor falls back to the
// running last-placed-node for travel-time accounting).
type DayEndpoint struct {
	StartID string
	EndID   string
}

// TrafficType identifies the kind of vehicle/leg a transit sub-path rides.
// A single authoritative enum per spec.md §9's open question; no
// traffic_type-dependent fallthrough ambiguity is reproduced.
type TrafficType int

const (
	TrafficSubway       TrafficType = 1
	TrafficBus          TrafficType = 2
	TrafficWalking      TrafficType = 3
	TrafficMinibus      TrafficType = 4
	TrafficAirportRail  TrafficType = 5
	TrafficTrain        TrafficType = 10
	TrafficExpressBus   TrafficType = 11
	TrafficAirportBus   TrafficType = 12
	TrafficFerry        TrafficType = 14
)

// Lane describes the transit line serving a sub-path.
type Lane struct {
	Name       string
	BusNo      string
	BusType    string
	SubwayCode string
	LineColor  string
}

// SubPath is one homogeneous portion of a transit segment.
type SubPath struct {
	TrafficType    TrafficType
	Distance       float64 // meters
	SectionTime    float64 // minutes
	StationCount   int
	StartName      string
	EndName        string
	Polyline       string // encoded or empty
	Lane           *Lane
	StartCoord     *Coordinate
	EndCoord       *Coordinate
	PassStopCoords []Coordinate
}

// TransitDetails carries the rich sub-path breakdown of a public-transit leg.
type TransitDetails struct {
	TotalFare       float64
	TransferCount   int
	WalkingTime     float64 // minutes
	WalkingDistance float64 // meters
	SubPaths        []SubPath
}

// Segment is one leg of travel between two consecutive placed entities.
// Go has no tagged union; per SPEC_FULL.md's data-model resolution this
// mirrors the teacher's own Leg type: one struct, a mode discriminator,
// and nil-able optional fields standing in for "None"/"Some(T)".
type Segment struct {
	Mode           TransportMode
	Distance       float64 // meters
	Duration       float64 // minutes
	Description    string
	Fare           *float64
	Polyline       *string
	TransitDetails *TransitDetails
}

// ScheduleItem is one placed entry within a day's schedule.
type ScheduleItem struct {
	PlaceID         string
	PlaceName       string
	Order           int // 1-based within its day
	ArrivalTime     string
	DepartureTime   string
	Duration        int // minutes
	IsFixed         bool
	TransportToNext *Segment
}

// EndpointKind classifies a day's origin/destination anchor.
type EndpointKind string

const (
	EndpointOrigin        EndpointKind = "origin"
	EndpointDestination   EndpointKind = "destination"
	EndpointAccommodation EndpointKind = "accommodation"
	EndpointWaypoint      EndpointKind = "waypoint"
)

// DayAnchor describes a concrete origin/destination point for a day.
type DayAnchor struct {
	Coordinate Coordinate
	Name       string
	Type       EndpointKind
}

// DailyItinerary is one day's fully assembled schedule.
type DailyItinerary struct {
	DayNumber           int // 1-based
	Date                string
	StartTime           string
	EndTime             string
	PlaceCount          int
	TotalDuration        float64 // travel minutes
	TotalDistance        float64 // meters
	TotalStayDuration     int    // stay minutes
	Schedule              []ScheduleItem
	DayOrigin             *DayAnchor
	DayDestination        *DayAnchor
	TransportFromOrigin   *Segment
	TransportToDestination *Segment
}

// Place is a point of interest in the trip input.
type Place struct {
	ID                 string
	Name               string
	Lat                float64
	Lng                float64
	EstimatedDuration  int // minutes
	Priority           int
}

// DailyAccommodation pins lodging for a range of nights [StartDate, EndDate).
type DailyAccommodation struct {
	Name      string
	Lat       float64
	Lng       float64
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, exclusive
}

// FixedSchedule is a user-pinned (place, date, time) constraint.
type FixedSchedule struct {
	PlaceID   string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// EndpointSpec names a trip's origin or destination.
type EndpointSpec struct {
	Name string
	Lat  float64
	Lng  float64
}

// TripInput is the full set of inputs to a single optimization run.
type TripInput struct {
	TripID          string
	Origin          EndpointSpec
	Destination     EndpointSpec
	StartDate       string // YYYY-MM-DD
	EndDate         string // YYYY-MM-DD
	DailyStartTime  string // HH:MM, default "10:00"
	DailyEndTime    string // HH:MM, default "22:00"
	TransportModes  []TransportMode
	Accommodations  []DailyAccommodation
	Places          []Place
	FixedSchedules  []FixedSchedule
}

// PrimaryMode returns the trip's single chosen transport mode, defaulting
// to car when none is specified.
func (t TripInput) PrimaryMode() TransportMode {
	if len(t.TransportModes) == 0 {
		return ModeCar
	}
	return t.TransportModes[0]
}

// TripSummary rolls up totals across the whole optimized trip (SPEC_FULL §4.8).
type TripSummary struct {
	DayCount            int
	TotalDistance       float64
	TotalDuration       float64
	TotalStayMinutes    int
	WalkingMinutes      float64
	PublicMinutes       float64
	CarMinutes          float64
	RouteImprovementPct float64 // 2-opt: (initial_cost-final_cost)/initial_cost*100
}

// UnassignedPlaceDetail explains why a place could not be scheduled.
type UnassignedPlaceDetail struct {
	PlaceID      string
	PlaceName    string
	ReasonCode   string
	ReasonMessage string
}

// ErrorObject is a non-fatal, reportable pipeline error (spec.md §6/§7).
type ErrorObject struct {
	Code      string
	Message   string
	DayNumber *int
	PlaceID   *string
	Details   map[string]any
}

// OptimizeResult is the public surface's return value (spec.md §6).
type OptimizeResult struct {
	Itinerary []DailyItinerary
	Errors    []ErrorObject
	Summary   TripSummary
}
