package optimize

import "testing"

// linearMatrix builds a matrix over ids where the cost between two ids is
// the absolute difference of their index in ids — a simple 1-D line, so
// the optimal visiting order is predictable.
func linearMatrix(ids []string) *DistanceMatrix {
	nodes := make([]OptimizeNode, len(ids))
	for i, id := range ids {
		nodes[i] = OptimizeNode{ID: id, Coordinate: Coordinate{Lat: 0, Lng: float64(i)}}
	}
	m := newMatrix(nodes)
	for i := range ids {
		for j := range ids {
			if i == j {
				continue
			}
			d := float64(j - i)
			if d < 0 {
				d = -d
			}
			m.Distances[i][j] = d
			m.Durations[i][j] = d
		}
	}
	return m
}

func TestNNWithEndpointsNoMiddleNodesReturnsOnlyEndpoints(t *testing.T) {
	m := linearMatrix([]string{"start", "end"})
	route := NNWithEndpoints(m, "start", "end", nil, 1, 1)
	if len(route) != 2 || route[0] != "start" || route[1] != "end" {
		t.Fatalf("expected [start end], got %v", route)
	}
}

func TestNNWithEndpointsVisitsEveryMiddleNodeExactlyOnce(t *testing.T) {
	ids := []string{"start", "a", "b", "c", "end"}
	m := linearMatrix(ids)
	route := NNWithEndpoints(m, "start", "end", []string{"a", "b", "c"}, 1, 0)

	if route[0] != "start" || route[len(route)-1] != "end" {
		t.Fatalf("endpoints not clamped: %v", route)
	}
	seen := map[string]bool{}
	for _, id := range route[1 : len(route)-1] {
		if seen[id] {
			t.Fatalf("node %s visited more than once in %v", id, route)
		}
		seen[id] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Fatalf("node %s missing from route %v", id, route)
		}
	}
}

func TestNNWithEndpointsPicksNearestFirstOnALine(t *testing.T) {
	// Index positions: start=0, near=1, far=2, end=3, so the cost from
	// start to "near" (1) is lower than to "far" (2).
	ids := []string{"start", "near", "far", "end"}
	m := linearMatrix(ids)
	route := NNWithEndpoints(m, "start", "end", []string{"far", "near"}, 1, 0)

	if route[1] != "near" {
		t.Errorf("expected nearest-neighbor to visit 'near' immediately after start, got route %v", route)
	}
}
