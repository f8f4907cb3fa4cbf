package optimize

import "math"

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between a and b in meters.
func HaversineMeters(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// average speeds in km/h, used only by the Haversine-fast matrix builder.
const (
	walkingSpeedKmh = 4.0
	carSpeedKmh     = 35.0
	publicSpeedKmh  = 25.0
)

// EstimateDurationMinutes converts a distance in meters into an estimated
// travel time in minutes for the given mode, using empirical average
// speeds (spec.md §4.2).
func EstimateDurationMinutes(distanceMeters float64, mode TransportMode) float64 {
	var speedKmh float64
	switch mode {
	case ModeWalking:
		speedKmh = walkingSpeedKmh
	case ModePublic:
		speedKmh = publicSpeedKmh
	case ModeCar:
		speedKmh = carSpeedKmh
	default:
		speedKmh = carSpeedKmh
	}
	hours := (distanceMeters / 1000) / speedKmh
	return hours * 60
}

// EffectiveMode returns the transport mode that actually applies to a leg
// of the given straight-line distance: walking is implicit for any leg
// under the configured threshold, regardless of the trip's chosen mode.
func EffectiveMode(distanceMeters float64, tripMode TransportMode, walkingThresholdMeters float64) TransportMode {
	if distanceMeters < walkingThresholdMeters {
		return ModeWalking
	}
	return tripMode
}
