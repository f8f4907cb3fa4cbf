package routing

// Loader synthesizes a minimal scheduled line on demand. The teacher's
// original deployment pulled a GTFS feed out of Postgres/PostGIS; a
// general-purpose trip planner has no single transit agency to bind to,
// so LocalScheduleTransitProvider needs a small, fast, purely local
// timetable to hand Schedule.FindNextDeparture instead of a live feed.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// BuildDirectRoute synthesizes a single scheduled Line between origin and
// destination, running trips every headwayMinutes across an 18-hour
// service day (05:00-23:00). distanceMeters and avgSpeedKmh determine
// each trip's travel time; farePerKm sets the line's price.
func (l *Loader) BuildDirectRoute(originName, destName string, originLat, originLon, destLat, destLon float64, distanceMeters, avgSpeedKmh, farePerKm float64, headwayMinutes int) *Line {
	if headwayMinutes <= 0 {
		headwayMinutes = 20
	}
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = 25
	}

	travelSeconds := int((distanceMeters / 1000 / avgSpeedKmh) * 3600)
	if travelSeconds < 60 {
		travelSeconds = 60
	}

	price := farePerKm * distanceMeters / 1000
	if price <= 0 {
		price = 2.0
	}

	line := &Line{
		Code:  "DIRECT",
		Color: "#3366CC",
		Type:  "bus",
		Price: price,
		Stops: [2]Stop{
			{Name: originName, Lat: originLat, Lon: originLon},
			{Name: destName, Lat: destLat, Lon: destLon},
		},
	}

	headwaySeconds := headwayMinutes * 60
	serviceStart := 5 * 3600
	serviceEnd := 23 * 3600
	for dep := serviceStart; dep <= serviceEnd; dep += headwaySeconds {
		line.Trips = append(line.Trips, Trip{
			ID: TripID(len(line.Trips)),
			StopTimes: []StopTime{
				{Arrival: dep, Departure: dep},
				{Arrival: dep + travelSeconds, Departure: dep + travelSeconds},
			},
		})
	}

	return line
}
