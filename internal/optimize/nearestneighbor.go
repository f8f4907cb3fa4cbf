package optimize

// NNWithEndpoints builds an initial route visiting every node in
// middleIDs exactly once, starting at startID and ending at endID (both
// held fixed), by repeatedly picking the unvisited node with the lowest
// cost from the current position (spec.md §4.3). Cost combines travel
// time and distance per timeWeight and distanceWeight so neither dominates at extreme
// matrix scales.
//
// Grounded on katalvlaran-lvlath/tsp/solve.go's nearest-neighbor
// constructor, adapted to clamp both route endpoints instead of only the
// start.
func NNWithEndpoints(m *DistanceMatrix, startID, endID string, middleIDs []string, timeWeight, distanceWeight float64) []string {
	if len(middleIDs) == 0 {
		return []string{startID, endID}
	}

	remaining := make(map[string]bool, len(middleIDs))
	for _, id := range middleIDs {
		remaining[id] = true
	}

	route := make([]string, 0, len(middleIDs)+2)
	route = append(route, startID)
	current := startID

	for len(remaining) > 0 {
		best := ""
		bestCost := 0.0
		// Deterministic tie-breaking: iterate middleIDs in their given
		// order rather than ranging over the map, so equal-cost ties
		// always resolve to the same candidate.
		for _, id := range middleIDs {
			if !remaining[id] {
				continue
			}
			dist, dur, _, ok := m.Get(current, id)
			if !ok {
				continue
			}
			cost := timeWeight*dur + distanceWeight*dist
			if best == "" || cost < bestCost {
				best = id
				bestCost = cost
			}
		}
		if best == "" {
			// No reachable candidate remains in the matrix; append the
			// rest in their original order rather than stalling.
			for _, id := range middleIDs {
				if remaining[id] {
					route = append(route, id)
					delete(remaining, id)
				}
			}
			break
		}
		route = append(route, best)
		delete(remaining, best)
		current = best
	}

	route = append(route, endID)
	return route
}
