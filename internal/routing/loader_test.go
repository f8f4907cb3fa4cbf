package routing

import "testing"

func TestBuildDirectRouteProducesASingleLineWithTrips(t *testing.T) {
	loader := NewLoader()
	line := loader.BuildDirectRoute("Origin", "Dest", 1, 1, 1.1, 1.1, 5000, 25, 0.12, 15)

	if line.Stops[0].Name != "Origin" || line.Stops[1].Name != "Dest" {
		t.Fatalf("expected stops [Origin, Dest], got %+v", line.Stops)
	}
	if len(line.Trips) == 0 {
		t.Fatal("expected at least one trip across the service day")
	}
}

func TestBuildDirectRouteAndScheduleFindNextDepartureAtAFixedTime(t *testing.T) {
	loader := NewLoader()
	line := loader.BuildDirectRoute("Origin", "Dest", 1, 1, 1.1, 1.1, 5000, 25, 0.12, 15)

	schedule := NewSchedule(line)
	// 08:00 is safely inside the 05:00-23:00 synthetic service window.
	journey := schedule.FindNextDeparture(8 * 3600)

	if journey == nil || len(journey.Legs) != 1 {
		t.Fatal("expected exactly one leg from a direct line lookup")
	}
	leg := journey.Legs[0]
	if leg.FromStop.Name != "Origin" || leg.ToStop.Name != "Dest" {
		t.Errorf("expected the leg to run Origin->Dest, got %+v", leg)
	}
	if leg.Duration <= 0 {
		t.Errorf("expected a positive travel duration, got %d", leg.Duration)
	}
}

func TestScheduleFindNextDepartureReturnsNilPastTheServiceDay(t *testing.T) {
	loader := NewLoader()
	line := loader.BuildDirectRoute("Origin", "Dest", 1, 1, 1.1, 1.1, 5000, 25, 0.12, 15)

	schedule := NewSchedule(line)
	if journey := schedule.FindNextDeparture(24 * 3600); journey != nil {
		t.Errorf("expected nil once departureTime is past every scheduled trip, got %+v", journey)
	}
}

func TestBuildDirectRouteFareScalesWithDistance(t *testing.T) {
	loader := NewLoader()
	near := loader.BuildDirectRoute("A", "B", 0, 0, 0.01, 0.01, 1000, 25, 0.12, 15)
	far := loader.BuildDirectRoute("A", "B", 0, 0, 1, 1, 50000, 25, 0.12, 15)

	if far.Price <= near.Price {
		t.Errorf("expected a longer route to cost more: near=%v far=%v", near.Price, far.Price)
	}
}

func TestBuildDirectRouteDefaultsInvalidHeadwayAndSpeed(t *testing.T) {
	loader := NewLoader()
	line := loader.BuildDirectRoute("A", "B", 0, 0, 0.05, 0.05, 2000, 0, 0.1, 0)
	if len(line.Trips) == 0 {
		t.Fatal("expected BuildDirectRoute to fall back to sane defaults rather than produce zero trips")
	}
}
