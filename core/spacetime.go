package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Validation failures raised by Progress.
var (
	ErrNegativeDuration = errors.New("time reversal is not permitted")
	ErrBadGranularity   = errors.New("granularity must be greater than zero")
)

// MetricsRecorder receives per-turn observations from the progression
// loop. The engine drives it directly so the observability layer never
// reaches into live state.
type MetricsRecorder interface {
	ObserveTick(wall time.Duration)
	AddCollisions(n int)
	AddCandidates(n int)
	SetObjectCounts(byDomain map[string]int)
}

// Spacetime is the public entry point of the engine: it owns a Space
// and advances it through discrete ticks, orchestrating the collision
// detector and resolver in correct temporal order.
//
// The lock around Progress is the single mutual-exclusion boundary of
// the engine; a tick's resolved state is only ever committed at tick
// boundaries.
type Spacetime struct {
	mu       sync.Mutex
	space    *Space
	resolver *Resolver
	metrics  MetricsRecorder
	updated  time.Time
	systems  []Node
}

// NewSpacetime wraps a Space with a default resolver.
func NewSpacetime(space *Space) *Spacetime {
	return &Spacetime{
		space:    space,
		resolver: NewResolver(),
		updated:  time.Now().UTC(),
	}
}

// Space returns the live registry.
func (st *Spacetime) Space() *Space { return st.space }

// Resolver returns the collision resolver so callers can tune
// restitution before the loop starts.
func (st *Spacetime) Resolver() *Resolver { return st.resolver }

// SetMetrics installs a metrics recorder. Pass nil to disable.
func (st *Spacetime) SetMetrics(rec MetricsRecorder) { st.metrics = rec }

// Updated returns the optimistic-concurrency stamp: the wall-clock time
// of the most recent completed progression.
func (st *Spacetime) Updated() time.Time {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.updated
}

// RestoreUpdated overwrites the stamp, used when reloading a saved
// world.
func (st *Spacetime) RestoreUpdated(t time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.updated = t
}

// AttachSystem registers a gravitational hierarchy with the world. The
// hierarchy is carried through serialization and mass bookkeeping; the
// tick loop never touches it.
func (st *Spacetime) AttachSystem(n Node) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.systems = append(st.systems, n)
}

// Systems returns the attached gravitational hierarchies.
func (st *Spacetime) Systems() []Node {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Node, len(st.systems))
	copy(out, st.systems)
	return out
}

// Progress advances the world by duration time units split into
// duration × granularity ticks of 1/granularity each.
//
// A zero duration is a no-op. Negative durations and non-positive
// granularities fail validation; they are never clamped.
func (st *Spacetime) Progress(duration, granularity int) error {
	if duration == 0 {
		return nil
	}
	if duration < 0 {
		return fmt.Errorf("progress: %w (got %d)", ErrNegativeDuration, duration)
	}
	if granularity <= 0 {
		return fmt.Errorf("progress: %w (got %d)", ErrBadGranularity, granularity)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	dt := 1.0 / float64(granularity)
	for i := 0; i < duration*granularity; i++ {
		st.tick(dt)
	}
	st.updated = time.Now().UTC()
	return nil
}

// tick advances the world by dt seconds: snapshot the registry, detect
// every collision inside [0, dt], then walk the impacts in time order,
// advancing the world up to each impact before resolving it. A tick
// runs exactly one detection pass; trajectories altered by a mid-tick
// collision are only re-examined on the next tick.
func (st *Spacetime) tick(dt float64) {
	start := time.Now()

	snapshot := st.space.Snapshot()
	impacts, candidates := DetectCollisions(snapshot, dt)

	// Stable sort keeps pair-enumeration order for simultaneous
	// impacts, which keeps the loop deterministic.
	sort.SliceStable(impacts, func(i, j int) bool { return impacts[i].T < impacts[j].T })

	advanced := 0.0
	for _, imp := range impacts {
		advance(snapshot, imp.T-advanced)
		st.resolver.Resolve(imp.A, imp.B)
		advanced = imp.T
	}
	advance(snapshot, dt-advanced)

	st.space.PruneDestroyed()

	if st.metrics != nil {
		st.metrics.ObserveTick(time.Since(start))
		st.metrics.AddCollisions(len(impacts))
		st.metrics.AddCandidates(candidates)
		st.metrics.SetObjectCounts(st.space.DomainCounts())
	}
}

// advance moves every snapshot member along its velocity. This is the
// only place in the engine that mutates positions by elapsed time.
func advance(objs []Object, seconds float64) {
	if seconds <= 0 {
		return
	}
	for _, obj := range objs {
		obj.Body().Coords.advance(seconds)
	}
}
