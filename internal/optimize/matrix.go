package optimize

import (
	"context"
	"sync"
	"time"

	"github.com/antigravity/ourroad-optimizer/internal/config"
	"github.com/antigravity/ourroad-optimizer/internal/providers"
)

// DistanceMatrix is a parallel-array distance/duration/mode table indexed
// by place ID. Index alignment across the five slices is builder-enforced;
// spec.md §9 permits this representation as long as no caller mutates one
// slice without the others (see EnrichDistanceMatrixWithTransit, which
// returns a new matrix rather than mutating this one).
type DistanceMatrix struct {
	Places         []string
	index          map[string]int
	Distances      [][]float64        // meters
	Durations      [][]float64        // minutes
	Modes          [][]TransportMode
	Polylines      [][]string
	TransitDetails [][]*TransitDetails
}

// Get returns the distance, duration, and mode for the leg from -> to.
// The second return value is false if either ID is not in the matrix.
func (m *DistanceMatrix) Get(from, to string) (distance, duration float64, mode TransportMode, ok bool) {
	i, iok := m.index[from]
	j, jok := m.index[to]
	if !iok || !jok {
		return 0, 0, "", false
	}
	return m.Distances[i][j], m.Durations[i][j], m.Modes[i][j], true
}

// Polyline returns the encoded polyline (if any) for the leg from -> to.
func (m *DistanceMatrix) Polyline(from, to string) (string, bool) {
	i, iok := m.index[from]
	j, jok := m.index[to]
	if !iok || !jok {
		return "", false
	}
	return m.Polylines[i][j], true
}

// TransitDetail returns the transit sub-path breakdown (if any) for the
// leg from -> to.
func (m *DistanceMatrix) TransitDetail(from, to string) (*TransitDetails, bool) {
	i, iok := m.index[from]
	j, jok := m.index[to]
	if !iok || !jok {
		return nil, false
	}
	return m.TransitDetails[i][j], true
}

func newMatrix(nodes []OptimizeNode) *DistanceMatrix {
	n := len(nodes)
	m := &DistanceMatrix{
		Places:         make([]string, n),
		index:          make(map[string]int, n),
		Distances:      make([][]float64, n),
		Durations:      make([][]float64, n),
		Modes:          make([][]TransportMode, n),
		Polylines:      make([][]string, n),
		TransitDetails: make([][]*TransitDetails, n),
	}
	for i, nd := range nodes {
		m.Places[i] = nd.ID
		m.index[nd.ID] = i
		m.Distances[i] = make([]float64, n)
		m.Durations[i] = make([]float64, n)
		m.Modes[i] = make([]TransportMode, n)
		m.Polylines[i] = make([]string, n)
		m.TransitDetails[i] = make([]*TransitDetails, n)
	}
	return m
}

// BuildHaversineMatrix fills every cell from great-circle distance and the
// mode's average speed (spec.md §4.2). Used as the fallback when no
// provider is configured, and as the seed matrix that BuildProviderMatrix
// refines in place.
func BuildHaversineMatrix(nodes []OptimizeNode, mode TransportMode, cfg *config.Config) *DistanceMatrix {
	m := newMatrix(nodes)
	for i, a := range nodes {
		for j, b := range nodes {
			if i == j {
				continue
			}
			dist := HaversineMeters(a.Coordinate, b.Coordinate)
			effMode := EffectiveMode(dist, mode, cfg.WalkingThresholdMeters)
			dur := EstimateDurationMinutes(dist, effMode)
			if effMode == ModePublic {
				dur *= cfg.PublicTransitRatio
			}
			m.Distances[i][j] = dist
			m.Durations[i][j] = dur
			m.Modes[i][j] = effMode
		}
	}
	return m
}

// legRequired reports whether the leg from -> to must be priced by a real
// provider rather than skipped. Per spec.md §4.2, legs that can never
// appear in a valid route (into the origin, out of the destination) are
// never worth a provider call.
func legRequired(from, to OptimizeNode) bool {
	if to.ID == NodeOrigin {
		return false
	}
	if from.ID == NodeDestination {
		return false
	}
	return from.ID != to.ID
}

// ProviderSet bundles the three routing collaborators the pipeline may
// call. Any of the three may be nil. The matrix build prices walking legs
// with Walking and both car and public legs with Car, so a nil Walking or
// Car provider leaves those legs at their Haversine estimate; Transit is
// only called by the enricher.
type ProviderSet struct {
	Car     providers.CarRoutingProvider
	Transit providers.TransitRoutingProvider
	Walking providers.WalkingRoutingProvider
}

// BuildProviderMatrix builds a full matrix by calling out to the
// configured providers in bounded concurrent batches (spec.md §4.2,
// §6's batch_size/batch_delay_ms knobs), grounded on the teacher's
// transport_handler.go goroutine-per-batch dispatch pattern. Legs under
// cfg.StubThresholdMeters, and legs excluded by legRequired, are never
// sent to a provider. Any leg whose provider call fails after retries
// keeps its Haversine estimate — BuildProviderMatrix never fails outright
// for a single bad leg, only for a cancelled context.
func BuildProviderMatrix(
	ctx context.Context,
	nodes []OptimizeNode,
	mode TransportMode,
	ps ProviderSet,
	cfg *config.Config,
	onProgress func(completed, total int),
) (*DistanceMatrix, error) {
	m := BuildHaversineMatrix(nodes, mode, cfg)

	type job struct{ i, j int }
	var jobs []job
	for i, a := range nodes {
		for j, b := range nodes {
			if i == j || !legRequired(a, b) {
				continue
			}
			dist := HaversineMeters(a.Coordinate, b.Coordinate)
			if dist < cfg.StubThresholdMeters {
				continue
			}
			jobs = append(jobs, job{i, j})
		}
	}

	total := len(jobs)
	var completed int
	var mu sync.Mutex
	reportProgress := func() {
		if onProgress == nil {
			return
		}
		mu.Lock()
		completed++
		c := completed
		mu.Unlock()
		onProgress(c, total)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(jobs); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + batchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		batch := jobs[start:end]

		var wg sync.WaitGroup
		for _, jb := range batch {
			jb := jb
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer reportProgress()
				a, b := nodes[jb.i], nodes[jb.j]
				fillLeg(ctx, m, jb.i, jb.j, a, b, mode, ps, cfg)
			}()
		}
		wg.Wait()

		if end < len(jobs) && cfg.BatchDelay > 0 {
			select {
			case <-time.After(cfg.BatchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return m, nil
}

// fillLeg resolves a single (i,j) cell via the provider matching the
// leg's effective mode, leaving the Haversine seed value in place on any
// provider failure.
func fillLeg(ctx context.Context, m *DistanceMatrix, i, j int, a, b OptimizeNode, mode TransportMode, ps ProviderSet, cfg *config.Config) {
	dist := HaversineMeters(a.Coordinate, b.Coordinate)
	effMode := EffectiveMode(dist, mode, cfg.WalkingThresholdMeters)
	origin := providers.LatLng{Lat: a.Coordinate.Lat, Lng: a.Coordinate.Lng}
	destination := providers.LatLng{Lat: b.Coordinate.Lat, Lng: b.Coordinate.Lng}

	switch effMode {
	case ModeWalking:
		if ps.Walking == nil {
			return
		}
		route, err := providers.TryOrNull(ctx, cfg.MaxAttempts, cfg.CallTimeout, func(ctx context.Context) (providers.WalkRoute, error) {
			return ps.Walking.GetWalkingRoute(ctx, origin, destination)
		})
		if err != nil || route == nil {
			return
		}
		m.Distances[i][j] = route.DistanceMeters
		m.Durations[i][j] = route.DurationMinutes
		m.Modes[i][j] = ModeWalking
		if route.Polyline != "" {
			m.Polylines[i][j] = route.Polyline
		}
	case ModeCar:
		if ps.Car == nil {
			return
		}
		route, err := providers.TryOrNull(ctx, cfg.MaxAttempts, cfg.CallTimeout, func(ctx context.Context) (providers.CarRoute, error) {
			return ps.Car.GetCarRoute(ctx, origin, destination)
		})
		if err != nil || route == nil {
			return
		}
		m.Distances[i][j] = route.DistanceMeters
		m.Durations[i][j] = route.DurationMinutes
		m.Modes[i][j] = ModeCar
		if route.Polyline != "" {
			m.Polylines[i][j] = route.Polyline
		}
	case ModePublic:
		// Required-pair policy: matrix construction prices every public
		// leg off the car provider times PublicTransitRatio rather than
		// calling the transit provider here. Transit quota is far tighter
		// than the car provider's, so a real transit lookup only ever
		// happens later, in the Enricher, for legs that survive into the
		// final itinerary.
		if ps.Car == nil {
			return
		}
		route, err := providers.TryOrNull(ctx, cfg.MaxAttempts, cfg.CallTimeout, func(ctx context.Context) (providers.CarRoute, error) {
			return ps.Car.GetCarRoute(ctx, origin, destination)
		})
		if err != nil || route == nil {
			return
		}
		m.Distances[i][j] = route.DistanceMeters
		m.Durations[i][j] = route.DurationMinutes * cfg.PublicTransitRatio
		m.Modes[i][j] = ModePublic
	}
}

func fromProviderTransitDetail(d providers.TransitDetail) *TransitDetails {
	out := &TransitDetails{
		TotalFare:       d.TotalFare,
		TransferCount:   d.TransferCount,
		WalkingTime:     d.WalkingTime,
		WalkingDistance: d.WalkingDistance,
		SubPaths:        make([]SubPath, len(d.SubPaths)),
	}
	for i, sp := range d.SubPaths {
		out.SubPaths[i] = SubPath{
			TrafficType:  TrafficType(sp.TrafficType),
			Distance:     sp.Distance,
			SectionTime:  sp.SectionTime,
			StationCount: sp.StationCount,
			StartName:    sp.StartName,
			EndName:      sp.EndName,
			Polyline:     sp.Polyline,
		}
		if sp.Lane != nil {
			out.SubPaths[i].Lane = &Lane{
				Name:       sp.Lane.Name,
				BusNo:      sp.Lane.BusNo,
				BusType:    sp.Lane.BusType,
				SubwayCode: sp.Lane.SubwayCode,
				LineColor:  sp.Lane.LineColor,
			}
		}
		if sp.StartCoord != nil {
			out.SubPaths[i].StartCoord = &Coordinate{Lat: sp.StartCoord.Lat, Lng: sp.StartCoord.Lng}
		}
		if sp.EndCoord != nil {
			out.SubPaths[i].EndCoord = &Coordinate{Lat: sp.EndCoord.Lat, Lng: sp.EndCoord.Lng}
		}
		for _, c := range sp.PassStopCoords {
			out.SubPaths[i].PassStopCoords = append(out.SubPaths[i].PassStopCoords, Coordinate{Lat: c.Lat, Lng: c.Lng})
		}
	}
	return out
}
