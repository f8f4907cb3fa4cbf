package optimize

import (
	"sort"
	"time"
)

const timeOfDayLayout = "15:04"

func parseTimeOfDay(s string) (time.Time, error) {
	return time.Parse(timeOfDayLayout, s)
}

func formatTimeOfDay(t time.Time) string {
	return t.Format(timeOfDayLayout)
}

func addMinutes(t time.Time, minutes float64) time.Time {
	return t.Add(time.Duration(minutes * float64(time.Minute)))
}

// dayPlan accumulates one day's placed nodes while distribution runs.
type dayPlan struct {
	date     string
	dayIndex int
	nodes    []string // node IDs in visiting order, excludes endpoints
}

// DistributeToDaily splits an ordered route (already 2-opt improved) into
// per-day groups, honoring fixed-date placements first and packing the
// remaining free nodes by day-by-day time budget (spec.md §4.5). It
// returns one dayPlan per trip date (possibly empty) plus the places that
// could not be placed anywhere, which the caller reports as non-fatal
// UnassignedPlaceDetail entries rather than failing the whole trip.
//
// Phase 1 places every fixed node on its pinned date, regardless of route
// order. Phase 2 greedily walks the remaining route order, assigning each
// free node to the current day until the day's time budget is spent or
// targetPerDay is reached (a soft hint — see SPEC_FULL.md's Open Question
// decision), then advances to the next day — and the budget is enforced on
// every day including the last, so a trip with more places than any day
// can hold reports the overflow in unassigned rather than placing it
// anyway. Phase 3 is left to buildDailyItinerary, which orders each
// day's nodes with sortByFixedStartTime before assigning times.
//
// matrix and endpoints drive the placement cost: appending a node to a
// day doesn't just cost its own stay duration, it also swaps the day's
// closing travel leg (from whatever was previously last to the day's end
// anchor) for two legs (last -> new node, new node -> end anchor). The
// net cost of that swap is placementDelta's
// duration + travel_from_prev + new_end_travel - old_end_travel.
func DistributeToDaily(
	route []string,
	byID map[string]*OptimizeNode,
	dates []string,
	dailyStartTime, dailyEndTime string,
	targetPerDay int,
	matrix *DistanceMatrix,
	endpoints []DayEndpoint,
) (plans []dayPlan, unassigned []UnassignedPlaceDetail) {
	plans = make([]dayPlan, len(dates))
	for i, d := range dates {
		plans[i] = dayPlan{date: d, dayIndex: i}
	}

	dateIndex := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIndex[d] = i
	}

	dayBudgetMinutes := dayWindowMinutes(dailyStartTime, dailyEndTime)

	placed := make(map[string]bool, len(route))
	dayUsedMinutes := make([]float64, len(dates))
	lastPlacedID := make([]string, len(dates))
	for i := range dates {
		if i < len(endpoints) {
			lastPlacedID[i] = endpoints[i].StartID
		}
	}

	// Phase 1: fixed nodes go straight to their pinned date, independent
	// of the greedy loop below and exempt from its time/count limits —
	// a fixed appointment is never dropped for being the day's Nth place.
	for _, id := range route {
		if id == NodeOrigin || id == NodeDestination {
			continue
		}
		node := byID[id]
		if node == nil || !node.IsFixed {
			continue
		}
		idx, ok := dateIndex[node.FixedDate]
		if !ok {
			unassigned = append(unassigned, UnassignedPlaceDetail{
				PlaceID:       id,
				PlaceName:     node.Name,
				ReasonCode:    "OUT_OF_RANGE",
				ReasonMessage: "fixed date is outside the trip's date range",
			})
			placed[id] = true
			continue
		}
		plans[idx].nodes = append(plans[idx].nodes, id)
		dayUsedMinutes[idx] += float64(node.DurationMin)
		lastPlacedID[idx] = id
		placed[id] = true
	}

	// Phase 2: greedy day-by-day packing of the remaining free nodes, in
	// route order, using a soft per-day count hint and a hard time budget
	// enforced on every day, including the last.
	currentDay := 0
	for _, id := range route {
		if id == NodeOrigin || id == NodeDestination || placed[id] {
			continue
		}
		node := byID[id]
		if node == nil {
			continue
		}

		endID := ""
		if currentDay < len(endpoints) {
			endID = endpoints[currentDay].EndID
		}

		for currentDay < len(dates)-1 {
			delta := placementDelta(matrix, lastPlacedID[currentDay], id, endID, float64(node.DurationMin))
			timeFull := dayUsedMinutes[currentDay]+delta > dayBudgetMinutes
			countHintExceeded := targetPerDay > 0 && len(plans[currentDay].nodes) >= targetPerDay
			if timeFull || countHintExceeded {
				currentDay++
				if currentDay < len(endpoints) {
					endID = endpoints[currentDay].EndID
				}
				continue
			}
			break
		}

		delta := placementDelta(matrix, lastPlacedID[currentDay], id, endID, float64(node.DurationMin))
		if dayUsedMinutes[currentDay]+delta > dayBudgetMinutes {
			unassigned = append(unassigned, UnassignedPlaceDetail{
				PlaceID:       id,
				PlaceName:     node.Name,
				ReasonCode:    "EXCEEDS_DAILY_LIMIT",
				ReasonMessage: "no remaining day has capacity",
			})
			continue
		}

		plans[currentDay].nodes = append(plans[currentDay].nodes, id)
		dayUsedMinutes[currentDay] += delta
		lastPlacedID[currentDay] = id
		placed[id] = true
	}

	return plans, unassigned
}

// placementDelta is spec.md §4.5's net-cost-of-insertion formula: the stay
// duration of the candidate node, plus travel from whatever is currently
// last in the day, plus travel from the candidate to the day's end
// anchor, minus the travel leg this placement displaces (prevID directly
// to the end anchor). A nil matrix or any leg missing from it contributes
// zero travel time, falling back to duration-only packing.
func placementDelta(matrix *DistanceMatrix, prevID, nodeID, endID string, duration float64) float64 {
	return duration + legDuration(matrix, prevID, nodeID) + legDuration(matrix, nodeID, endID) - legDuration(matrix, prevID, endID)
}

func legDuration(matrix *DistanceMatrix, from, to string) float64 {
	if matrix == nil || from == "" || to == "" || from == to {
		return 0
	}
	_, dur, _, ok := matrix.Get(from, to)
	if !ok {
		return 0
	}
	return dur
}

// dayWindowMinutes returns the length, in minutes, of [dailyStartTime,
// dailyEndTime). Falls back to a 12-hour window if either bound fails to
// parse (should not happen past ValidateFixedSchedules).
func dayWindowMinutes(dailyStartTime, dailyEndTime string) float64 {
	start, err1 := parseTimeOfDay(dailyStartTime)
	end, err2 := parseTimeOfDay(dailyEndTime)
	if err1 != nil || err2 != nil || !end.After(start) {
		return 12 * 60
	}
	return end.Sub(start).Minutes()
}

// sortByFixedStartTime orders a day's node IDs. Fixed nodes with a
// parseable start time are ordered among themselves by that time; free
// nodes keep their input order, and so does any fixed/free pair. Free
// nodes are not interleaved between fixed nodes: for the layout
// DistributeToDaily produces (a day's fixed nodes ahead of its free
// ones), the result is the fixed nodes by start time followed by the
// free nodes in input order.
func sortByFixedStartTime(nodeIDs []string, byID map[string]*OptimizeNode) []string {
	type entry struct {
		id       string
		fixed    bool
		start    time.Time
		original int
	}
	entries := make([]entry, len(nodeIDs))
	for i, id := range nodeIDs {
		n := byID[id]
		e := entry{id: id, original: i}
		if n != nil && n.IsFixed && n.FixedStartTime != "" {
			if t, err := parseTimeOfDay(n.FixedStartTime); err == nil {
				e.fixed = true
				e.start = t
			}
		}
		entries[i] = e
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.fixed && b.fixed {
			return a.start.Before(b.start)
		}
		if a.fixed != b.fixed {
			// A fixed/free pair keeps its input order; the fixed
			// node's start time is not compared here.
			return a.original < b.original
		}
		return a.original < b.original
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}
