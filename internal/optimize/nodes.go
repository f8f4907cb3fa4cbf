package optimize

import "fmt"

// BuildResult is the Node Builder's output (spec.md §4.1): the ordered
// node list, a lookup map, and the per-day endpoint table the distributor
// consumes.
type BuildResult struct {
	Nodes        []OptimizeNode
	ByID         map[string]*OptimizeNode
	Dates        []string // one entry per trip day, in order
	DayEndpoints []DayEndpoint
}

// BuildNodes normalizes a TripInput into homogeneous OptimizeNodes plus
// the per-day endpoint table, grounded on routing/loader.go's dense-ID
// remapping idiom (stable synthetic IDs instead of a DB primary key).
func BuildNodes(input TripInput) (*BuildResult, error) {
	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, invalidInput(fmt.Sprintf("invalid start_date %q: %v", input.StartDate, err))
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, invalidInput(fmt.Sprintf("invalid end_date %q: %v", input.EndDate, err))
	}
	if end.Before(start) {
		return nil, invalidInput("end_date is before start_date")
	}

	if err := validateAccommodationOverlap(input.Accommodations); err != nil {
		return nil, err
	}

	dates := dateRange(start, end)

	nodes := make([]OptimizeNode, 0, len(input.Places)+len(input.Accommodations)+2)
	byID := make(map[string]*OptimizeNode, cap(nodes))

	origin := OptimizeNode{
		ID:         NodeOrigin,
		Name:       input.Origin.Name,
		Coordinate: Coordinate{Lat: input.Origin.Lat, Lng: input.Origin.Lng},
	}
	nodes = append(nodes, origin)

	fixedByPlace := make(map[string]FixedSchedule, len(input.FixedSchedules))
	for _, fs := range input.FixedSchedules {
		fixedByPlace[fs.PlaceID] = fs
	}

	for _, p := range input.Places {
		n := OptimizeNode{
			ID:          p.ID,
			Name:        p.Name,
			Coordinate:  Coordinate{Lat: p.Lat, Lng: p.Lng},
			DurationMin: p.EstimatedDuration,
			Priority:    p.Priority,
		}
		if fs, ok := fixedByPlace[p.ID]; ok {
			n.IsFixed = true
			n.FixedDate = fs.Date
			n.FixedStartTime = fs.StartTime
			n.FixedEndTime = fs.EndTime
		}
		nodes = append(nodes, n)
	}

	accIDs := make([]string, len(input.Accommodations))
	for i, acc := range input.Accommodations {
		id := AccommodationNodeID(i)
		accIDs[i] = id
		nodes = append(nodes, OptimizeNode{
			ID:         id,
			Name:       acc.Name,
			Coordinate: Coordinate{Lat: acc.Lat, Lng: acc.Lng},
		})
	}

	destination := OptimizeNode{
		ID:         NodeDestination,
		Name:       input.Destination.Name,
		Coordinate: Coordinate{Lat: input.Destination.Lat, Lng: input.Destination.Lng},
	}
	nodes = append(nodes, destination)

	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	// "fewer than two real places" (spec.md §4.1) is interpreted as: the
	// node set must at minimum contain an origin and a destination, which
	// TripInput always supplies.
	// A trip with zero POIs is valid (spec.md §8 Scenario 1).

	endpoints := make([]DayEndpoint, len(dates))
	for d, date := range dates {
		ep := DayEndpoint{}
		if d == 0 {
			ep.StartID = NodeOrigin
		} else {
			prevDate := dates[d-1]
			for i, acc := range input.Accommodations {
				if dateInHalfOpenRange(prevDate, acc.StartDate, acc.EndDate) {
					ep.StartID = accIDs[i]
					break
				}
			}
		}
		if d == len(dates)-1 {
			ep.EndID = NodeDestination
		} else {
			for i, acc := range input.Accommodations {
				if dateInHalfOpenRange(date, acc.StartDate, acc.EndDate) {
					ep.EndID = accIDs[i]
					break
				}
			}
		}
		endpoints[d] = ep
	}

	return &BuildResult{
		Nodes:        nodes,
		ByID:         byID,
		Dates:        dates,
		DayEndpoints: endpoints,
	}, nil
}

// validateAccommodationOverlap rejects any pair of accommodations whose
// [start, end) ranges are not merely touching but actually overlapping.
func validateAccommodationOverlap(accs []DailyAccommodation) error {
	for i := 0; i < len(accs); i++ {
		for j := i + 1; j < len(accs); j++ {
			a, b := accs[i], accs[j]
			if a.StartDate < b.EndDate && b.StartDate < a.EndDate {
				return invalidInput(fmt.Sprintf("accommodations %d and %d overlap", i, j))
			}
		}
	}
	return nil
}
