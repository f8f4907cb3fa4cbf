package optimize

import (
	"fmt"
	"time"
)

// ValidateFixedSchedules checks every fixed schedule for internal
// consistency before any distance matrix is built (SPEC_FULL.md §4.9):
// the pinned date must fall within the trip's date range, start must
// precede end, and no two fixed schedules sharing a date may overlap.
// This runs first so a contradictory set of appointments is rejected
// before the pipeline spends provider quota on a trip that can never be
// scheduled.
func ValidateFixedSchedules(schedules []FixedSchedule, tripStartDate, tripEndDate string) []ConstraintError {
	var errs []ConstraintError

	byDate := make(map[string][]FixedSchedule)
	for _, fs := range schedules {
		if fs.Date < tripStartDate || fs.Date > tripEndDate {
			errs = append(errs, ConstraintError{
				Code:    "OUT_OF_RANGE",
				Message: fmt.Sprintf("fixed schedule for %s on %s is outside the trip's date range", fs.PlaceID, fs.Date),
				PlaceID: strPtr(fs.PlaceID),
			})
			continue
		}
		start, err1 := parseTimeOfDay(fs.StartTime)
		end, err2 := parseTimeOfDay(fs.EndTime)
		if err1 != nil || err2 != nil {
			errs = append(errs, ConstraintError{
				Code:    "INVALID_TIME",
				Message: fmt.Sprintf("fixed schedule for %s has an unparsable start/end time", fs.PlaceID),
				PlaceID: strPtr(fs.PlaceID),
			})
			continue
		}
		if !end.After(start) {
			errs = append(errs, ConstraintError{
				Code:    "INVALID_TIME",
				Message: fmt.Sprintf("fixed schedule for %s ends before/at its own start", fs.PlaceID),
				PlaceID: strPtr(fs.PlaceID),
			})
			continue
		}
		byDate[fs.Date] = append(byDate[fs.Date], fs)
	}

	for date, group := range byDate {
		_ = date
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if timeRangesOverlap(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
					errs = append(errs, ConstraintError{
						Code:    "SCHEDULE_CONFLICT",
						Message: fmt.Sprintf("fixed schedules for %s and %s overlap on %s", a.PlaceID, b.PlaceID, a.Date),
						PlaceID: strPtr(a.PlaceID),
					})
				}
			}
		}
	}

	return errs
}

func timeRangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	as, err1 := parseTimeOfDay(aStart)
	ae, err2 := parseTimeOfDay(aEnd)
	bs, err3 := parseTimeOfDay(bStart)
	be, err4 := parseTimeOfDay(bEnd)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	return as.Before(be) && bs.Before(ae)
}

// ValidateDistribution checks a completed per-day distribution against
// the closed error-code set spec.md §7 names. An empty day is not an
// error. A node with a negative duration is INVALID_DURATION, a single
// node longer than the day's window is OUT_OF_HOURS, and a day whose
// total stay minutes exceed the window is EXCEEDS_DAILY_LIMIT.
func ValidateDistribution(plans []dayPlan, byID map[string]*OptimizeNode, dailyStartTime, dailyEndTime string) []ConstraintError {
	var errs []ConstraintError
	budget := dayWindowMinutes(dailyStartTime, dailyEndTime)

	for _, plan := range plans {
		if len(plan.nodes) == 0 {
			continue // an empty day is valid, not an error, per spec.md §8 Scenario 1
		}
		var used float64
		day := plan.dayIndex
		for _, id := range plan.nodes {
			n := byID[id]
			if n == nil {
				continue
			}
			if n.DurationMin < 0 {
				errs = append(errs, ConstraintError{
					Code:    "INVALID_DURATION",
					Message: fmt.Sprintf("place %s has a negative duration", id),
					Day:     &day,
					PlaceID: strPtr(id),
				})
			}
			if float64(n.DurationMin) > budget {
				errs = append(errs, ConstraintError{
					Code:    "OUT_OF_HOURS",
					Message: fmt.Sprintf("place %s alone exceeds the daily window", id),
					Day:     &day,
					PlaceID: strPtr(id),
				})
			}
			used += float64(n.DurationMin)
		}
		if used > budget {
			errs = append(errs, ConstraintError{
				Code:    "EXCEEDS_DAILY_LIMIT",
				Message: fmt.Sprintf("day %d's scheduled stay time exceeds its window", day+1),
				Day:     &day,
			})
		}
	}

	return errs
}

// ValidateItinerary performs a final end-to-end sanity pass over the
// assembled itinerary: every schedule item's arrival/departure must
// parse, fall within its day's window, and be non-decreasing in visiting
// order.
func ValidateItinerary(itinerary []DailyItinerary, dailyStartTime, dailyEndTime string) []ConstraintError {
	var errs []ConstraintError
	windowStart, errStart := parseTimeOfDay(dailyStartTime)
	windowEnd, errEnd := parseTimeOfDay(dailyEndTime)
	if errStart != nil || errEnd != nil {
		return errs
	}

	for _, day := range itinerary {
		dayNum := day.DayNumber
		var prevDeparture *time.Time
		for _, item := range day.Schedule {
			arrival, err1 := parseTimeOfDay(item.ArrivalTime)
			departure, err2 := parseTimeOfDay(item.DepartureTime)
			if err1 != nil || err2 != nil {
				errs = append(errs, ConstraintError{
					Code:    "INVALID_TIME",
					Message: fmt.Sprintf("day %d place %s has an unparsable time", dayNum, item.PlaceID),
					Day:     &dayNum,
					PlaceID: strPtr(item.PlaceID),
				})
				continue
			}
			if arrival.Before(windowStart) || departure.After(windowEnd) {
				errs = append(errs, ConstraintError{
					Code:    "OUT_OF_HOURS",
					Message: fmt.Sprintf("day %d place %s falls outside the daily window", dayNum, item.PlaceID),
					Day:     &dayNum,
					PlaceID: strPtr(item.PlaceID),
				})
			}
			if prevDeparture != nil && arrival.Before(*prevDeparture) {
				errs = append(errs, ConstraintError{
					Code:    "SCHEDULE_CONFLICT",
					Message: fmt.Sprintf("day %d place %s arrives before the previous item departs", dayNum, item.PlaceID),
					Day:     &dayNum,
					PlaceID: strPtr(item.PlaceID),
				})
			}
			prevDeparture = &departure
		}
	}
	return errs
}

func strPtr(s string) *string { return &s }
