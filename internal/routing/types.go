package routing

import (
	"fmt"
	"time"
)

// A synthesized network is always a single scheduled line between two
// stops (the transit enricher's fallback never needs transfers or a
// multi-route graph, since it only ever prices one origin/destination
// pair at a time) — see Loader.BuildDirectRoute.

type StopID int32
type TripID int32

// Stop is one endpoint of the line: stop 0 is always the origin, stop 1
// the destination.
type Stop struct {
	Name string
	Lat  float64
	Lon  float64
}

// StopTime is a single trip's arrival/departure at a stop, in seconds
// since midnight.
type StopTime struct {
	Arrival   int
	Departure int
}

// Trip is one scheduled run of the line; StopTimes[0] is departure from
// the origin, StopTimes[len-1] is arrival at the destination.
type Trip struct {
	ID        TripID
	StopTimes []StopTime
}

// Line is the single scheduled route a synthesized network carries,
// repeating at a fixed headway across the service day.
type Line struct {
	Code  string
	Color string
	Type  string
	Price float64
	Stops [2]Stop
	Trips []Trip
}

// SecondsToTime formats a seconds-since-midnight value as HH:MM:SS.
func SecondsToTime(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// TimeToSeconds converts a wall-clock time.Time into seconds since
// midnight, the unit Schedule.FindNextDeparture expects.
func TimeToSeconds(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
