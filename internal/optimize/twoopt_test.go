package optimize

import "testing"

// crossedMatrix places four nodes so that the naive order start-b-c-end
// crosses itself, while start-c-b-end does not — the canonical case a
// single 2-opt swap should fix.
func crossedMatrix() *DistanceMatrix {
	nodes := []OptimizeNode{
		{ID: "start", Coordinate: Coordinate{Lat: 0, Lng: 0}},
		{ID: "b", Coordinate: Coordinate{Lat: 1, Lng: 0}},
		{ID: "c", Coordinate: Coordinate{Lat: 0, Lng: 1}},
		{ID: "end", Coordinate: Coordinate{Lat: 1, Lng: 1}},
	}
	m := newMatrix(nodes)
	for i, a := range nodes {
		for j, b := range nodes {
			if i == j {
				continue
			}
			d := HaversineMeters(a.Coordinate, b.Coordinate)
			m.Distances[i][j] = d
			m.Durations[i][j] = d
		}
	}
	return m
}

func TestTwoOptWithEndpointsUncrossesRoute(t *testing.T) {
	m := crossedMatrix()
	route := []string{"start", "b", "c", "end"}

	before := routeCost(m, route, 0, 1)
	result := TwoOptWithEndpoints(m, route, 0, 1, 50, 10, 0.0001)

	if result.FinalCost > before {
		t.Fatalf("2-opt made the route worse: before=%v after=%v route=%v", before, result.FinalCost, result.Route)
	}
	if result.Route[0] != "start" || result.Route[len(result.Route)-1] != "end" {
		t.Errorf("endpoints must stay clamped, got %v", result.Route)
	}
	if result.InitialCost != before {
		t.Errorf("expected InitialCost to match the pre-optimization cost: got %v want %v", result.InitialCost, before)
	}
	wantPct := (result.InitialCost - result.FinalCost) / result.InitialCost * 100
	if result.ImprovementPct != wantPct {
		t.Errorf("ImprovementPct should equal (initial-final)/initial*100: got %v want %v", result.ImprovementPct, wantPct)
	}
}

func TestTwoOptWithEndpointsShortRouteUnchanged(t *testing.T) {
	m := crossedMatrix()
	route := []string{"start", "end"}
	result := TwoOptWithEndpoints(m, route, 1, 1, 10, 5, 0.001)
	if len(result.Route) != 2 || result.Route[0] != "start" || result.Route[1] != "end" {
		t.Errorf("routes shorter than 4 nodes should pass through unchanged, got %v", result.Route)
	}
	if result.ImprovementPct != 0 {
		t.Errorf("expected no improvement reported for a route too short to touch, got %v", result.ImprovementPct)
	}
}

func TestTwoOptWithEndpointsAppliesOnlyTheSingleBestSwapPerPass(t *testing.T) {
	// A four-interior-node route gives more than one candidate (i,j) swap
	// per pass; with maxIterations=1 we can observe that at most one
	// reversal happened: the result differs from the input by the reversal
	// of a single contiguous block, or not at all.
	nodes := []OptimizeNode{
		{ID: "start", Coordinate: Coordinate{Lat: 0, Lng: 0}},
		{ID: "a", Coordinate: Coordinate{Lat: 1, Lng: 0}},
		{ID: "b", Coordinate: Coordinate{Lat: 0, Lng: 1}},
		{ID: "c", Coordinate: Coordinate{Lat: 2, Lng: 1}},
		{ID: "d", Coordinate: Coordinate{Lat: 1, Lng: 2}},
		{ID: "end", Coordinate: Coordinate{Lat: 2, Lng: 2}},
	}
	m := newMatrix(nodes)
	for i, a := range nodes {
		for j, b := range nodes {
			if i == j {
				continue
			}
			d := HaversineMeters(a.Coordinate, b.Coordinate)
			m.Distances[i][j] = d
			m.Durations[i][j] = d
		}
	}

	route := []string{"start", "a", "b", "c", "d", "end"}
	result := TwoOptWithEndpoints(m, route, 0, 1, 1, 10, 0.0001)

	if result.Iterations != 1 {
		t.Fatalf("expected exactly one pass with maxIterations=1, got %d", result.Iterations)
	}
	if result.FinalCost > result.InitialCost {
		t.Errorf("a single best-improvement pass should never worsen cost: initial=%v final=%v", result.InitialCost, result.FinalCost)
	}

	lo, hi := 0, len(route)-1
	for lo <= hi && result.Route[lo] == route[lo] {
		lo++
	}
	for hi >= lo && result.Route[hi] == route[hi] {
		hi--
	}
	for k := lo; k <= hi; k++ {
		if result.Route[k] != route[lo+hi-k] {
			t.Fatalf("expected at most one contiguous reversal in one pass, got %v from %v", result.Route, route)
		}
	}
}

func TestIteratedTwoOptNeverWorsensCost(t *testing.T) {
	m := crossedMatrix()
	route := []string{"start", "b", "c", "end"}
	baseline := TwoOptWithEndpoints(m, append([]string(nil), route...), 0, 1, 50, 10, 0.0001)

	iterated := IteratedTwoOpt(m, route, 0, 1, 50, 10, 0.0001, 4)

	if iterated.FinalCost > baseline.FinalCost {
		t.Errorf("iterated 2-opt should never be worse than a single run: baseline=%v iterated=%v", baseline.FinalCost, iterated.FinalCost)
	}
	if iterated.InitialCost != routeCost(m, route, 0, 1) {
		t.Errorf("expected IteratedTwoOpt.InitialCost to reflect the original route's cost, got %v", iterated.InitialCost)
	}
	wantPct := (iterated.InitialCost - iterated.FinalCost) / iterated.InitialCost * 100
	if iterated.ImprovementPct != wantPct {
		t.Errorf("ImprovementPct should equal (initial-final)/initial*100 across the whole iterated run: got %v want %v", iterated.ImprovementPct, wantPct)
	}
}

func TestDoubleBridgePreservesEndpointsAndMembers(t *testing.T) {
	route := []string{"start", "p1", "p2", "p3", "p4", "p5", "p6", "end"}
	out := doubleBridge(route)

	if out[0] != route[0] {
		t.Errorf("double bridge must keep the first element fixed, got %v", out)
	}
	if out[len(out)-1] != route[len(route)-1] {
		t.Errorf("double bridge must keep the last element fixed, got %v", out)
	}
	if len(out) != len(route) {
		t.Fatalf("double bridge changed route length: %d vs %d", len(out), len(route))
	}
	seen := map[string]bool{}
	for _, id := range out {
		seen[id] = true
	}
	for _, id := range route {
		if !seen[id] {
			t.Errorf("double bridge dropped node %s", id)
		}
	}
}

func TestDoubleBridgeShortRouteReturnsCopyUnchanged(t *testing.T) {
	route := []string{"start", "a", "b", "end"}
	out := doubleBridge(route)
	if len(out) != len(route) {
		t.Fatalf("expected same-length copy for short routes, got %v", out)
	}
	for i := range route {
		if out[i] != route[i] {
			t.Errorf("expected route unchanged for n<8, got %v", out)
		}
	}
}
