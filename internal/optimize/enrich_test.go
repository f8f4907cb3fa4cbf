package optimize

import (
	"context"
	"testing"

	"github.com/antigravity/ourroad-optimizer/internal/config"
	"github.com/antigravity/ourroad-optimizer/internal/providers"
)

type stubTransitProvider struct {
	calls int
	fare  float64
}

func (s *stubTransitProvider) GetBestTransitRoute(ctx context.Context, origin, destination providers.LatLng) (providers.TransitRoute, error) {
	s.calls++
	return providers.TransitRoute{
		DistanceMeters:  1000,
		DurationMinutes: 20,
		Details:         providers.TransitDetail{TotalFare: s.fare, TransferCount: 1},
	}, nil
}

func enrichFixtureNodes() []OptimizeNode {
	return []OptimizeNode{
		{ID: "a", Coordinate: Coordinate{Lat: 0, Lng: 0}},
		{ID: "b", Coordinate: Coordinate{Lat: 0.05, Lng: 0.05}},
		{ID: "c", Coordinate: Coordinate{Lat: 0.1, Lng: 0.1}},
	}
}

func enrichFixtureByID(nodes []OptimizeNode) map[string]*OptimizeNode {
	byID := make(map[string]*OptimizeNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}
	return byID
}

func TestEnrichDistanceMatrixWithTransitPopulatesDetailsForUsedLegs(t *testing.T) {
	cfg := config.Load()
	nodes := enrichFixtureNodes()
	src := BuildHaversineMatrix(nodes, ModePublic, cfg)
	byID := enrichFixtureByID(nodes)

	stub := &stubTransitProvider{fare: 4.5}
	legs := [][2]string{{"a", "b"}}
	enriched := EnrichDistanceMatrixWithTransit(context.Background(), src, legs, byID, stub, cfg)

	td, ok := enriched.Base.TransitDetail("a", "b")
	if !ok || td == nil {
		t.Fatalf("expected transit detail for a->b, got ok=%v td=%v", ok, td)
	}
	if td.TotalFare != 4.5 {
		t.Errorf("expected enriched fare 4.5, got %v", td.TotalFare)
	}
	if stub.calls == 0 {
		t.Error("expected the transit provider to be called at least once")
	}
}

func TestEnrichDistanceMatrixWithTransitSkipsLegsNotInTheUsedSet(t *testing.T) {
	cfg := config.Load()
	nodes := enrichFixtureNodes()
	src := BuildHaversineMatrix(nodes, ModePublic, cfg)
	byID := enrichFixtureByID(nodes)

	stub := &stubTransitProvider{fare: 4.5}
	legs := [][2]string{{"a", "b"}} // "b"->"c" deliberately left out
	enriched := EnrichDistanceMatrixWithTransit(context.Background(), src, legs, byID, stub, cfg)

	if td, ok := enriched.Base.TransitDetail("b", "c"); ok && td != nil {
		t.Errorf("expected b->c to stay unenriched since it's not in the used-segment set, got %+v", td)
	}
	if stub.calls != 1 {
		t.Errorf("expected exactly one provider call for the one used leg, got %d", stub.calls)
	}
}

func TestEnrichDistanceMatrixWithTransitNeverMutatesSource(t *testing.T) {
	cfg := config.Load()
	nodes := enrichFixtureNodes()
	src := BuildHaversineMatrix(nodes, ModePublic, cfg)
	byID := enrichFixtureByID(nodes)

	stub := &stubTransitProvider{fare: 4.5}
	EnrichDistanceMatrixWithTransit(context.Background(), src, [][2]string{{"a", "b"}}, byID, stub, cfg)

	if td, ok := src.TransitDetail("a", "b"); ok && td != nil {
		t.Errorf("expected the source matrix to remain untouched, got %+v", td)
	}
}

func TestEnrichDistanceMatrixWithTransitNilProviderReturnsSourceUnchanged(t *testing.T) {
	cfg := config.Load()
	nodes := enrichFixtureNodes()
	src := BuildHaversineMatrix(nodes, ModePublic, cfg)
	byID := enrichFixtureByID(nodes)

	enriched := EnrichDistanceMatrixWithTransit(context.Background(), src, [][2]string{{"a", "b"}}, byID, nil, cfg)
	if enriched.Base != src {
		t.Error("expected a nil transit provider to return the same base matrix untouched")
	}
}

func TestExtractRouteSegmentsDedupesAcrossDays(t *testing.T) {
	byID := map[string]*OptimizeNode{
		"a": {ID: "a"}, "b": {ID: "b"}, "c": {ID: "c"},
	}
	plans := []dayPlan{
		{nodes: []string{"a", "b"}},
		{nodes: []string{"a", "b"}}, // same stops revisited on day 2
	}
	endpoints := []DayEndpoint{
		{StartID: "start", EndID: "end"},
		{StartID: "start", EndID: "end"},
	}

	pairs := ExtractRouteSegments(plans, endpoints, byID)

	want := map[[2]string]bool{
		{"start", "a"}: true,
		{"a", "b"}:     true,
		{"b", "end"}:   true,
	}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d deduplicated pairs, got %d: %+v", len(want), len(pairs), pairs)
	}
	for _, p := range pairs {
		if !want[p] {
			t.Errorf("unexpected pair %+v", p)
		}
	}
}

func TestExtractRouteSegmentsHandlesEmptyDay(t *testing.T) {
	byID := map[string]*OptimizeNode{}
	plans := []dayPlan{{nodes: nil}}
	endpoints := []DayEndpoint{{StartID: "start", EndID: "end"}}

	pairs := ExtractRouteSegments(plans, endpoints, byID)
	if len(pairs) != 1 || pairs[0] != ([2]string{"start", "end"}) {
		t.Errorf("expected a single direct start->end pair for an empty day, got %+v", pairs)
	}
}
