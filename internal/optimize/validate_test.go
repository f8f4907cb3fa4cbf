package optimize

import "testing"

func hasCode(errs []ConstraintError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateFixedSchedulesAcceptsNonOverlappingSchedules(t *testing.T) {
	schedules := []FixedSchedule{
		{PlaceID: "p1", Date: "2026-08-02", StartTime: "10:00", EndTime: "11:00"},
		{PlaceID: "p2", Date: "2026-08-02", StartTime: "11:30", EndTime: "12:30"},
	}
	errs := ValidateFixedSchedules(schedules, "2026-08-01", "2026-08-03")
	if len(errs) != 0 {
		t.Errorf("expected no errors for non-overlapping schedules, got %+v", errs)
	}
}

func TestValidateFixedSchedulesRejectsDateOutsideRange(t *testing.T) {
	schedules := []FixedSchedule{
		{PlaceID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"},
	}
	errs := ValidateFixedSchedules(schedules, "2026-08-01", "2026-08-03")
	if !hasCode(errs, "OUT_OF_RANGE") {
		t.Errorf("expected OUT_OF_RANGE, got %+v", errs)
	}
}

func TestValidateFixedSchedulesRejectsEndBeforeStart(t *testing.T) {
	schedules := []FixedSchedule{
		{PlaceID: "p1", Date: "2026-08-02", StartTime: "12:00", EndTime: "10:00"},
	}
	errs := ValidateFixedSchedules(schedules, "2026-08-01", "2026-08-03")
	if !hasCode(errs, "INVALID_TIME") {
		t.Errorf("expected INVALID_TIME, got %+v", errs)
	}
}

func TestValidateFixedSchedulesRejectsOverlap(t *testing.T) {
	schedules := []FixedSchedule{
		{PlaceID: "p1", Date: "2026-08-02", StartTime: "10:00", EndTime: "11:30"},
		{PlaceID: "p2", Date: "2026-08-02", StartTime: "11:00", EndTime: "12:00"},
	}
	errs := ValidateFixedSchedules(schedules, "2026-08-01", "2026-08-03")
	if !hasCode(errs, "SCHEDULE_CONFLICT") {
		t.Errorf("expected SCHEDULE_CONFLICT, got %+v", errs)
	}
}

func TestValidateDistributionEmptyDayIsNotAnError(t *testing.T) {
	plans := []dayPlan{{date: "2026-08-01", dayIndex: 0}}
	errs := ValidateDistribution(plans, map[string]*OptimizeNode{}, "09:00", "21:00")
	if len(errs) != 0 {
		t.Errorf("expected an empty day to be valid, got %+v", errs)
	}
}

func TestValidateDistributionFlagsDailyLimitExceeded(t *testing.T) {
	p1 := &OptimizeNode{ID: "p1", DurationMin: 400}
	p2 := &OptimizeNode{ID: "p2", DurationMin: 400}
	plans := []dayPlan{{date: "2026-08-01", dayIndex: 0, nodes: []string{"p1", "p2"}}}
	byID := map[string]*OptimizeNode{"p1": p1, "p2": p2}

	errs := ValidateDistribution(plans, byID, "09:00", "21:00") // 720-minute window
	if !hasCode(errs, "EXCEEDS_DAILY_LIMIT") {
		t.Errorf("expected EXCEEDS_DAILY_LIMIT for 800 minutes of stay in a 720-minute window, got %+v", errs)
	}
}

func TestValidateItineraryFlagsOutOfHoursArrival(t *testing.T) {
	itinerary := []DailyItinerary{
		{
			DayNumber: 1,
			Schedule: []ScheduleItem{
				{PlaceID: "p1", ArrivalTime: "07:00", DepartureTime: "08:00"},
			},
		},
	}
	errs := ValidateItinerary(itinerary, "09:00", "21:00")
	if !hasCode(errs, "OUT_OF_HOURS") {
		t.Errorf("expected OUT_OF_HOURS for an arrival before the daily window opens, got %+v", errs)
	}
}

func TestValidateItineraryFlagsOutOfOrderArrival(t *testing.T) {
	itinerary := []DailyItinerary{
		{
			DayNumber: 1,
			Schedule: []ScheduleItem{
				{PlaceID: "p1", ArrivalTime: "10:00", DepartureTime: "11:00"},
				{PlaceID: "p2", ArrivalTime: "10:30", DepartureTime: "11:30"},
			},
		},
	}
	errs := ValidateItinerary(itinerary, "09:00", "21:00")
	if !hasCode(errs, "SCHEDULE_CONFLICT") {
		t.Errorf("expected SCHEDULE_CONFLICT when a later item arrives before the previous departs, got %+v", errs)
	}
}

func TestValidateItineraryAcceptsWellFormedDay(t *testing.T) {
	itinerary := []DailyItinerary{
		{
			DayNumber: 1,
			Schedule: []ScheduleItem{
				{PlaceID: "p1", ArrivalTime: "10:00", DepartureTime: "11:00"},
				{PlaceID: "p2", ArrivalTime: "11:30", DepartureTime: "12:30"},
			},
		},
	}
	errs := ValidateItinerary(itinerary, "09:00", "21:00")
	if len(errs) != 0 {
		t.Errorf("expected no errors for a well-formed day, got %+v", errs)
	}
}
