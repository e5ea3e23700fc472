package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector bundles the Prometheus metrics the progression loop
// drives and provides a ready-to-serve /metrics handler. It satisfies
// the engine's MetricsRecorder interface so the loop can push
// observations without knowing about Prometheus.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	TickDuration    prometheus.Histogram
	TicksTotal      prometheus.Counter
	CollisionsTotal prometheus.Counter
	CandidatesTotal prometheus.Counter
	LiveObjects     *prometheus.GaugeVec
}

// NewEngineCollector registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	tickDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_tick_duration_seconds",
		Help:    "Wall-clock time spent running one simulation tick.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}), "engine_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_ticks_total",
		Help: "Total number of simulation ticks executed.",
	}), "engine_ticks_total")
	if err != nil {
		return nil, err
	}

	collisions, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_collisions_total",
		Help: "Total number of collisions resolved.",
	}), "engine_collisions_total")
	if err != nil {
		return nil, err
	}

	candidates, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_collision_candidates_total",
		Help: "Total number of object pairs surviving the broad phase.",
	}), "engine_collision_candidates_total")
	if err != nil {
		return nil, err
	}

	liveObjects := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "engine_objects",
		Help: "Current number of live objects in the registry, by domain.",
	}, []string{"domain"})
	liveObjects, err = registerGaugeVec(reg, liveObjects, "engine_objects")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:        gatherer,
		TickDuration:    tickDuration,
		TicksTotal:      ticks,
		CollisionsTotal: collisions,
		CandidatesTotal: candidates,
		LiveObjects:     liveObjects,
	}, nil
}

// ObserveTick records one completed tick.
func (c *EngineCollector) ObserveTick(wall time.Duration) {
	if c == nil {
		return
	}
	c.TicksTotal.Inc()
	c.TickDuration.Observe(wall.Seconds())
}

// AddCollisions records resolved collisions.
func (c *EngineCollector) AddCollisions(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.CollisionsTotal.Add(float64(n))
}

// AddCandidates records pairs that survived the broad phase.
func (c *EngineCollector) AddCandidates(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.CandidatesTotal.Add(float64(n))
}

// SetObjectCounts replaces the per-domain live object gauges.
func (c *EngineCollector) SetObjectCounts(byDomain map[string]int) {
	if c == nil {
		return
	}
	c.LiveObjects.Reset()
	for domain, count := range byDomain {
		c.LiveObjects.WithLabelValues(domain).Set(float64(count))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
