package routing

// Schedule answers "when's the next trip" queries against a single Line.
// Unlike a general transit graph search, a synthesized direct line never
// has transfers or route choice to reason about, so there is no rounds-
// based search here — just a scan for the earliest trip departing at or
// after the requested time.
type Schedule struct {
	Line *Line
}

func NewSchedule(line *Line) *Schedule {
	return &Schedule{Line: line}
}

// Journey is the result of a schedule lookup: always exactly one leg for
// a direct line.
type Journey struct {
	Legs []Leg
}

type Leg struct {
	FromStop   Stop
	ToStop     Stop
	StartTime  string
	EndTime    string
	Duration   int // seconds
	RouteCode  string
	RouteColor string
}

// FindNextDeparture returns the journey for the earliest trip departing
// at or after departureTime (seconds since midnight), or nil if the
// service day has already ended.
func (s *Schedule) FindNextDeparture(departureTime int) *Journey {
	if s.Line == nil || len(s.Line.Trips) == 0 {
		return nil
	}

	for _, trip := range s.Line.Trips {
		dep := trip.StopTimes[0].Departure
		if dep < departureTime {
			continue
		}
		arr := trip.StopTimes[len(trip.StopTimes)-1].Arrival
		return &Journey{Legs: []Leg{{
			FromStop:   s.Line.Stops[0],
			ToStop:     s.Line.Stops[1],
			StartTime:  SecondsToTime(dep),
			EndTime:    SecondsToTime(arr),
			Duration:   arr - dep,
			RouteCode:  s.Line.Code,
			RouteColor: s.Line.Color,
		}}}
	}

	return nil
}
