package optimize

import (
	"context"
	"errors"
	"strings"

	"github.com/antigravity/ourroad-optimizer/internal/config"
	"github.com/antigravity/ourroad-optimizer/internal/logging"
)

// OptimizeRoute runs the full seven-stage pipeline spec.md describes:
// node building, fixed-schedule pre-validation, distance matrix
// construction, nearest-neighbor construction, iterated 2-opt
// improvement, daily distribution, and final validation plus transit
// enrichment. It is the one public entry point every caller (HTTP
// handler, CLI) goes through.
//
// Grounded on the teacher's transport_handler.go request-to-response
// orchestration shape: parse input, validate, fan out to providers,
// assemble response — generalized from a single-route lookup into a
// multi-stage pipeline.
func OptimizeRoute(ctx context.Context, input TripInput, ps ProviderSet, cfg *config.Config, log *logging.Logger) (*OptimizeResult, error) {
	if log == nil {
		log = logging.New("optimize", logging.LevelInfo)
	}

	build, err := BuildNodes(input)
	if err != nil {
		return nil, err
	}

	if fixedErrs := ValidateFixedSchedules(input.FixedSchedules, input.StartDate, input.EndDate); len(fixedErrs) > 0 {
		log.Warn("rejecting trip %s: %d fixed-schedule conflicts", input.TripID, len(fixedErrs))
		return &OptimizeResult{Errors: constraintErrorsToObjects(fixedErrs)}, joinConstraintErrors(fixedErrs)
	}

	mode := input.PrimaryMode()

	var matrix *DistanceMatrix
	if ps.Car != nil || ps.Transit != nil || ps.Walking != nil {
		matrix, err = BuildProviderMatrix(ctx, build.Nodes, mode, ps, cfg, func(completed, total int) {
			log.Debug("trip %s: matrix %d/%d legs resolved", input.TripID, completed, total)
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			log.Warn("trip %s: provider matrix failed (%v), falling back to haversine", input.TripID, err)
			matrix = BuildHaversineMatrix(build.Nodes, mode, cfg)
		}
	} else {
		matrix = BuildHaversineMatrix(build.Nodes, mode, cfg)
	}

	middleIDs := make([]string, 0, len(input.Places))
	for _, p := range input.Places {
		middleIDs = append(middleIDs, p.ID)
	}

	route := NNWithEndpoints(matrix, NodeOrigin, NodeDestination, middleIDs, cfg.TimeWeight, cfg.DistanceWeight)
	twoOpt := IteratedTwoOpt(matrix, route, cfg.TimeWeight, cfg.DistanceWeight, cfg.TwoOptMaxIterations, cfg.TwoOptNoImprovementLimit, cfg.TwoOptMinImprovementThreshold, 4)
	route = twoOpt.Route

	targetPerDay := placesPerDayHint(input.Places, input.FixedSchedules, len(build.Dates))
	plans, unassigned := DistributeToDaily(route, build.ByID, build.Dates, input.DailyStartTime, input.DailyEndTime, targetPerDay, matrix, build.DayEndpoints)

	var enriched *EnrichedMatrix
	if ps.Transit != nil {
		legs := ExtractRouteSegments(plans, build.DayEndpoints, build.ByID)
		enriched = EnrichDistanceMatrixWithTransit(ctx, matrix, legs, build.ByID, ps.Transit, cfg)
	} else {
		enriched = &EnrichedMatrix{Base: matrix}
	}

	itinerary := make([]DailyItinerary, 0, len(plans))
	for i, plan := range plans {
		endpoint := build.DayEndpoints[i]
		itinerary = append(itinerary, buildDailyItinerary(i+1, build.Dates[i], plan, endpoint, build.ByID, enriched.Base, input.DailyStartTime, input.DailyEndTime))
	}

	var allConstraintErrs []ConstraintError
	allConstraintErrs = append(allConstraintErrs, ValidateDistribution(plans, build.ByID, input.DailyStartTime, input.DailyEndTime)...)
	allConstraintErrs = append(allConstraintErrs, ValidateItinerary(itinerary, input.DailyStartTime, input.DailyEndTime)...)

	summary := summarize(itinerary)
	summary.RouteImprovementPct = twoOpt.ImprovementPct

	result := &OptimizeResult{
		Itinerary: itinerary,
		Errors:    append(constraintErrorsToObjects(allConstraintErrs), unassignedToObjects(unassigned)...),
		Summary:   summary,
	}

	return result, nil
}

// buildDailyItinerary assembles one day's DailyItinerary: visiting order
// (from sortByFixedStartTime; a fixed node's arrival waits for its start
// time), per-leg
// transport segments pulled from m, and day-anchor framing segments to
// and from the day's start/end endpoint.
func buildDailyItinerary(
	dayNumber int,
	date string,
	plan dayPlan,
	endpoint DayEndpoint,
	byID map[string]*OptimizeNode,
	m *DistanceMatrix,
	dailyStartTime, dailyEndTime string,
) DailyItinerary {
	ordered := sortByFixedStartTime(plan.nodes, byID)

	day := DailyItinerary{
		DayNumber:      dayNumber,
		Date:           date,
		StartTime:      dailyStartTime,
		EndTime:        dailyEndTime,
		DayOrigin:      resolveAnchor(endpoint.StartID, byID),
		DayDestination: resolveAnchor(endpoint.EndID, byID),
	}

	if len(ordered) == 0 {
		if seg := legSegment(m, endpoint.StartID, endpoint.EndID); seg != nil {
			day.TransportFromOrigin = seg
			day.TransportToDestination = seg
			day.TotalDistance += seg.Distance
			day.TotalDuration += seg.Duration
		}
		return day
	}

	cursor, err := parseTimeOfDay(dailyStartTime)
	if err != nil {
		cursor, _ = parseTimeOfDay("10:00")
	}

	items := make([]ScheduleItem, 0, len(ordered))
	prevID := endpoint.StartID

	for idx, id := range ordered {
		n := byID[id]
		if n == nil {
			continue
		}

		seg := legSegment(m, prevID, id)
		if seg != nil {
			cursor = addMinutes(cursor, seg.Duration)
			day.TotalDistance += seg.Distance
			day.TotalDuration += seg.Duration
			if idx == 0 {
				day.TransportFromOrigin = seg
			} else {
				items[len(items)-1].TransportToNext = seg
			}
		}

		arrival := cursor
		if n.IsFixed && n.FixedStartTime != "" {
			if fixedStart, err := parseTimeOfDay(n.FixedStartTime); err == nil && fixedStart.After(arrival) {
				arrival = fixedStart
			}
		}
		departure := addMinutes(arrival, float64(n.DurationMin))
		if n.IsFixed && n.FixedEndTime != "" {
			if fixedEnd, err := parseTimeOfDay(n.FixedEndTime); err == nil {
				departure = fixedEnd
			}
		}
		day.TotalStayDuration += n.DurationMin

		items = append(items, ScheduleItem{
			PlaceID:       id,
			PlaceName:     n.Name,
			Order:         idx + 1,
			ArrivalTime:   formatTimeOfDay(arrival),
			DepartureTime: formatTimeOfDay(departure),
			Duration:      n.DurationMin,
			IsFixed:       n.IsFixed,
		})

		cursor = departure
		prevID = id
	}

	if endpoint.EndID != "" {
		if seg := legSegment(m, prevID, endpoint.EndID); seg != nil {
			items[len(items)-1].TransportToNext = seg
			day.TransportToDestination = seg
			day.TotalDistance += seg.Distance
			day.TotalDuration += seg.Duration
			cursor = addMinutes(cursor, seg.Duration)
		}
	}

	day.Schedule = items
	day.PlaceCount = len(items)
	day.EndTime = formatTimeOfDay(cursor)
	return day
}

func legSegment(m *DistanceMatrix, from, to string) *Segment {
	if from == "" || to == "" || from == to {
		return nil
	}
	dist, dur, mode, ok := m.Get(from, to)
	if !ok {
		return nil
	}
	seg := &Segment{Mode: mode, Distance: dist, Duration: dur}
	if p, ok := m.Polyline(from, to); ok && p != "" {
		seg.Polyline = &p
	}
	if mode == ModePublic {
		if td, ok := m.TransitDetail(from, to); ok && td != nil {
			seg.TransitDetails = td
			fare := td.TotalFare
			seg.Fare = &fare
		}
	}
	return seg
}

// placesPerDayHint computes spec.md §4.5's ceil(nonFixed.count / totalDays)
// soft packing target: how many free (non-fixed) places the distributor
// should aim to place per day before considering a day "full enough" to
// advance, absent a harder time-budget or fixed-schedule constraint.
func placesPerDayHint(places []Place, fixedSchedules []FixedSchedule, totalDays int) int {
	if totalDays <= 0 {
		return 0
	}
	fixedIDs := make(map[string]bool, len(fixedSchedules))
	for _, fs := range fixedSchedules {
		fixedIDs[fs.PlaceID] = true
	}
	nonFixed := 0
	for _, p := range places {
		if !fixedIDs[p.ID] {
			nonFixed++
		}
	}
	if nonFixed == 0 {
		return 0
	}
	return (nonFixed + totalDays - 1) / totalDays
}

func resolveAnchor(id string, byID map[string]*OptimizeNode) *DayAnchor {
	n := byID[id]
	if n == nil {
		return nil
	}
	kind := EndpointWaypoint
	switch {
	case id == NodeOrigin:
		kind = EndpointOrigin
	case id == NodeDestination:
		kind = EndpointDestination
	case strings.HasPrefix(id, "__accommodation_"):
		kind = EndpointAccommodation
	}
	return &DayAnchor{Coordinate: n.Coordinate, Name: n.Name, Type: kind}
}

func summarize(itinerary []DailyItinerary) TripSummary {
	var s TripSummary
	s.DayCount = len(itinerary)
	for _, day := range itinerary {
		s.TotalDistance += day.TotalDistance
		s.TotalDuration += day.TotalDuration
		s.TotalStayMinutes += day.TotalStayDuration

		for _, item := range day.Schedule {
			if item.TransportToNext == nil {
				continue
			}
			switch item.TransportToNext.Mode {
			case ModeWalking:
				s.WalkingMinutes += item.TransportToNext.Duration
			case ModePublic:
				s.PublicMinutes += item.TransportToNext.Duration
			case ModeCar:
				s.CarMinutes += item.TransportToNext.Duration
			}
		}
		if day.TransportFromOrigin != nil {
			addModeMinutes(&s, day.TransportFromOrigin)
		}
	}
	return s
}

func addModeMinutes(s *TripSummary, seg *Segment) {
	switch seg.Mode {
	case ModeWalking:
		s.WalkingMinutes += seg.Duration
	case ModePublic:
		s.PublicMinutes += seg.Duration
	case ModeCar:
		s.CarMinutes += seg.Duration
	}
}

func constraintErrorsToObjects(errs []ConstraintError) []ErrorObject {
	out := make([]ErrorObject, 0, len(errs))
	for _, e := range errs {
		out = append(out, ErrorObject{
			Code:      e.Code,
			Message:   e.Message,
			DayNumber: dayNumberFromIndex(e.Day),
			PlaceID:   e.PlaceID,
		})
	}
	return out
}

func dayNumberFromIndex(idx *int) *int {
	if idx == nil {
		return nil
	}
	n := *idx + 1
	return &n
}

func unassignedToObjects(u []UnassignedPlaceDetail) []ErrorObject {
	out := make([]ErrorObject, 0, len(u))
	for _, d := range u {
		out = append(out, ErrorObject{
			Code:    d.ReasonCode,
			Message: d.ReasonMessage,
			PlaceID: strPtr(d.PlaceID),
		})
	}
	return out
}

func joinConstraintErrors(errs []ConstraintError) error {
	wrapped := make([]error, 0, len(errs))
	for i := range errs {
		wrapped = append(wrapped, &errs[i])
	}
	return errors.Join(wrapped...)
}
