package metrics

import (
	"net/http"

	"github.com/oomph-ac/verdict/detection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality: labels only ever hold verdicts, never player or match IDs.
var (
	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdict_hits_total",
		Help: "Hit claims validated, by outcome",
	}, []string{"outcome"}) // Bounded: "valid", "shooter_not_alive", "no_hit"

	hitboxTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdict_hitbox_total",
		Help: "Valid hits by hitbox",
	}, []string{"hitbox"})

	rewindClampedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdict_rewind_clamped_total",
		Help: "Hit claims whose timestamp was outside of the rewind window",
	})

	movementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdict_movements_total",
		Help: "Movements validated, by violation",
	}, []string{"violation"})

	flagsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdict_flags_total",
		Help: "Flags raised to the detection handler",
	}, []string{"type", "sub_type"})

	snapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdict_snapshots_total",
		Help: "World states recorded",
	})

	matchesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "verdict_matches_active",
		Help: "Matches currently tracked",
	})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "verdict_job_duration_seconds",
		Help:    "Time spent running a validation on its lane",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	}, []string{"op"}) // Bounded: "snapshot", "hit", "movement", "config"
)

// RecordHit records the outcome of a hit validation.
func RecordHit(outcome, hitbox string, clamped bool) {
	hitsTotal.WithLabelValues(outcome).Inc()
	if hitbox != "" {
		hitboxTotal.WithLabelValues(hitbox).Inc()
	}
	if clamped {
		rewindClampedTotal.Inc()
	}
}

// RecordMovement records the violation of a movement validation, "NONE" for valid movements.
func RecordMovement(violation string) {
	movementsTotal.WithLabelValues(violation).Inc()
}

// RecordSnapshot records a world state being saved.
func RecordSnapshot() {
	snapshotsTotal.Inc()
}

// SetMatches sets the amount of matches currently tracked.
func SetMatches(n int) {
	matchesActive.Set(float64(n))
}

// ObserveJob records the time in seconds an operation took on its lane.
func ObserveJob(op string, seconds float64) {
	jobDuration.WithLabelValues(op).Observe(seconds)
}

// FlagHandler is a detection.Handler counting every flag it is handed.
type FlagHandler struct{}

func (FlagHandler) HandleFlag(f detection.Flag) {
	flagsTotal.WithLabelValues(f.Type, f.SubType).Inc()
}

// Handler returns the HTTP handler serving the metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
