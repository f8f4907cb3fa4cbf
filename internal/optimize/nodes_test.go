package optimize

import "testing"

func baseTripInput() TripInput {
	return TripInput{
		TripID:         "trip-1",
		Origin:         EndpointSpec{Name: "Airport", Lat: 1, Lng: 1},
		Destination:    EndpointSpec{Name: "Airport", Lat: 1, Lng: 1},
		StartDate:      "2026-08-01",
		EndDate:        "2026-08-03",
		DailyStartTime: "10:00",
		DailyEndTime:   "22:00",
		TransportModes: []TransportMode{ModeCar},
		Places: []Place{
			{ID: "p1", Name: "Museum", Lat: 1.01, Lng: 1.01, EstimatedDuration: 90, Priority: 1},
			{ID: "p2", Name: "Park", Lat: 1.02, Lng: 1.02, EstimatedDuration: 60, Priority: 2},
		},
	}
}

func TestBuildNodesZeroPlacesIsValid(t *testing.T) {
	input := baseTripInput()
	input.Places = nil

	result, err := BuildNodes(input)
	if err != nil {
		t.Fatalf("BuildNodes with zero places returned an error: %v", err)
	}
	if len(result.Nodes) != 2 {
		t.Fatalf("expected exactly origin+destination nodes, got %d", len(result.Nodes))
	}
	if result.Nodes[0].ID != NodeOrigin || result.Nodes[len(result.Nodes)-1].ID != NodeDestination {
		t.Error("expected first node origin and last node destination")
	}
}

func TestBuildNodesRejectsEndBeforeStart(t *testing.T) {
	input := baseTripInput()
	input.StartDate, input.EndDate = "2026-08-05", "2026-08-01"

	if _, err := BuildNodes(input); err == nil {
		t.Error("expected an error when end_date precedes start_date")
	}
}

func TestBuildNodesRejectsOverlappingAccommodations(t *testing.T) {
	input := baseTripInput()
	input.Accommodations = []DailyAccommodation{
		{Name: "Hotel A", Lat: 1, Lng: 1, StartDate: "2026-08-01", EndDate: "2026-08-03"},
		{Name: "Hotel B", Lat: 2, Lng: 2, StartDate: "2026-08-02", EndDate: "2026-08-04"},
	}

	if _, err := BuildNodes(input); err == nil {
		t.Error("expected an error for overlapping accommodation date ranges")
	}
}

func TestBuildNodesFixedScheduleAttaches(t *testing.T) {
	input := baseTripInput()
	input.FixedSchedules = []FixedSchedule{
		{PlaceID: "p1", Date: "2026-08-02", StartTime: "14:00", EndTime: "15:30"},
	}

	result, err := BuildNodes(input)
	if err != nil {
		t.Fatalf("BuildNodes returned an error: %v", err)
	}
	n, ok := result.ByID["p1"]
	if !ok {
		t.Fatal("expected p1 in the node map")
	}
	if !n.IsFixed || n.FixedDate != "2026-08-02" || n.FixedStartTime != "14:00" {
		t.Errorf("fixed schedule not attached to node: %+v", n)
	}
}

func TestBuildNodesDayEndpointsSpanOriginToDestination(t *testing.T) {
	input := baseTripInput()

	result, err := BuildNodes(input)
	if err != nil {
		t.Fatalf("BuildNodes returned an error: %v", err)
	}
	if len(result.DayEndpoints) != 3 {
		t.Fatalf("expected 3 days, got %d", len(result.DayEndpoints))
	}
	if result.DayEndpoints[0].StartID != NodeOrigin {
		t.Errorf("day 1 should start at origin, got %q", result.DayEndpoints[0].StartID)
	}
	last := result.DayEndpoints[len(result.DayEndpoints)-1]
	if last.EndID != NodeDestination {
		t.Errorf("last day should end at destination, got %q", last.EndID)
	}
}

func TestBuildNodesDayEndpointsUseAccommodation(t *testing.T) {
	input := baseTripInput()
	input.Accommodations = []DailyAccommodation{
		{Name: "Hotel", Lat: 1.05, Lng: 1.05, StartDate: "2026-08-01", EndDate: "2026-08-03"},
	}

	result, err := BuildNodes(input)
	if err != nil {
		t.Fatalf("BuildNodes returned an error: %v", err)
	}
	// Day 1 (index 0) ends at the accommodation; day 2 (index 1) starts and
	// ends there too.
	if result.DayEndpoints[0].EndID != AccommodationNodeID(0) {
		t.Errorf("day 1 should end at the accommodation, got %q", result.DayEndpoints[0].EndID)
	}
	if result.DayEndpoints[1].StartID != AccommodationNodeID(0) {
		t.Errorf("day 2 should start at the accommodation, got %q", result.DayEndpoints[1].StartID)
	}
}
