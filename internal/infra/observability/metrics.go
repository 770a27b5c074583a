package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the UI gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can serve it.
	Registry *prometheus.Registry

	cycleDuration  *prometheus.HistogramVec
	cyclesTotal    *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	staleDrops     *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	questionsTotal *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		cycleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uigw_fetch_cycle_duration_seconds",
				Help:    "Duration of page fetch cycles by page.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"page"},
		),
		cyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigw_fetch_cycles_total",
				Help: "Completed page fetch cycles by outcome.",
			},
			[]string{"page", "outcome"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigw_upstream_errors_total",
				Help: "Total errors from the analytics backend by operation.",
			},
			[]string{"operation"},
		),
		staleDrops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigw_stale_results_dropped_total",
				Help: "Fetch results discarded because the selection generation advanced.",
			},
			[]string{"page"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigw_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigw_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		questionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigw_assistant_questions_total",
				Help: "Assistant questions by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// RecordCycleDuration records the duration of one page fetch cycle.
func (m *Metrics) RecordCycleDuration(page string, d time.Duration) {
	m.cycleDuration.WithLabelValues(page).Observe(d.Seconds())
}

// IncrCycle increments the fetch-cycle counter. Outcome is "ready",
// "settled" or "stale".
func (m *Metrics) IncrCycle(page, outcome string) {
	m.cyclesTotal.WithLabelValues(page, outcome).Inc()
}

// IncrUpstreamError increments the upstream error counter.
func (m *Metrics) IncrUpstreamError(operation string) {
	m.upstreamErrors.WithLabelValues(operation).Inc()
}

// IncrStaleDrop counts a fetch result dropped for being stale.
func (m *Metrics) IncrStaleDrop(page string) {
	m.staleDrops.WithLabelValues(page).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrQuestion increments the assistant question counter. Outcome is
// "answered", "failed" or "rejected".
func (m *Metrics) IncrQuestion(outcome string) {
	m.questionsTotal.WithLabelValues(outcome).Inc()
}

// UISnapshot is a JSON-friendly aggregate of the gateway's own health,
// served by GET /v1/metrics/ui for the devtools panel.
type UISnapshot struct {
	FetchCyclesReady   int64   `json:"fetch_cycles_ready"`
	FetchCyclesSettled int64   `json:"fetch_cycles_settled"`
	StaleDropped       int64   `json:"stale_dropped"`
	ErrorRate          float64 `json:"error_rate"`
	CacheHitRate       float64 `json:"cache_hit_rate"`
	QuestionsAnswered  int64   `json:"questions_answered"`
	QuestionsFailed    int64   `json:"questions_failed"`
	Period             string  `json:"period"`
}

// GetUISnapshot reads the counters back out of Prometheus and aggregates
// them across pages. Counters are cumulative since process start.
func (m *Metrics) GetUISnapshot() *UISnapshot {
	pages := []string{"dashboard", "transactions", "budgets", "anomalies", "profile"}

	var ready, settled, stale float64
	for _, p := range pages {
		ready += getCounterValue(m.cyclesTotal, p, "ready")
		settled += getCounterValue(m.cyclesTotal, p, "settled")
		stale += getCounterValue(m.staleDrops, p)
	}

	answered := getCounterValue(m.questionsTotal, "answered")
	failed := getCounterValue(m.questionsTotal, "failed")
	hits := getCounterValue(m.cacheHits, "user")
	misses := getCounterValue(m.cacheMisses, "user")

	errorRate := float64(0)
	if ready+settled > 0 {
		errorRate = settled / (ready + settled)
	}
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &UISnapshot{
		FetchCyclesReady:   int64(ready),
		FetchCyclesSettled: int64(settled),
		StaleDropped:       int64(stale),
		ErrorRate:          errorRate,
		CacheHitRate:       hitRate,
		QuestionsAnswered:  int64(answered),
		QuestionsFailed:    int64(failed),
		Period:             "since_start",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for
// the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
