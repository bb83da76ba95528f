package metrics

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/operator-framework/setcover/pkg/cover"
)

const (
	Outcome    = "outcome"
	Succeeded  = "succeeded"
	Failed     = "failed"
	Optimal    = "optimal"
	Infeasible = "infeasible"
	Incomplete = "incomplete"
)

// To add new metrics:
// 1. Register new metrics in Register() below.
// 2. Update them from Observer.Observe or an Emit function.
var (
	solveCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setcover_solve_total",
			Help: "Number of completed or cancelled searches by outcome",
		},
		[]string{Outcome},
	)

	solveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "setcover_solve_duration_seconds",
			Help:    "The duration of a search",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 10),
		},
		[]string{Outcome},
	)

	searchNodes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setcover_search_nodes_total",
			Help: "Number of search states examined",
		},
	)

	searchPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setcover_search_pruned_total",
			Help: "Number of search states discarded by the lower bound",
		},
	)

	reductionDominated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setcover_reduction_dominated_total",
			Help: "Number of sets removed because another set dominated them",
		},
	)

	reductionForced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setcover_reduction_forced_total",
			Help: "Number of sets committed because they were the only cover for some element",
		},
	)

	coverSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "setcover_cover_size",
			Help: "Number of sets in the most recently found cover",
		},
	)

	registerOnce sync.Once
)

// Register adds the solver metrics to the default registry. It is
// safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(solveCount)
		prometheus.MustRegister(solveDuration)
		prometheus.MustRegister(searchNodes)
		prometheus.MustRegister(searchPruned)
		prometheus.MustRegister(reductionDominated)
		prometheus.MustRegister(reductionForced)
		prometheus.MustRegister(coverSize)
	})
}

func EmitSolveSuccess(duration time.Duration) {
	solveDuration.WithLabelValues(Succeeded).Observe(duration.Seconds())
}

func EmitSolveFailure(duration time.Duration) {
	solveDuration.WithLabelValues(Failed).Observe(duration.Seconds())
}

// Observer records the outcome and search statistics of every Result.
type Observer struct{}

var _ cover.Observer = Observer{}

func (Observer) Observe(r *cover.Result) {
	solveCount.WithLabelValues(outcome(r)).Inc()
	searchNodes.Add(float64(r.Stats.Nodes))
	searchPruned.Add(float64(r.Stats.Pruned))
	reductionDominated.Add(float64(r.Stats.Dominated))
	reductionForced.Add(float64(r.Stats.Forced))
	if r.Feasible {
		coverSize.Set(float64(len(r.Cover)))
	}
}

func outcome(r *cover.Result) string {
	switch {
	case !r.Optimal:
		return Incomplete
	case !r.Feasible:
		return Infeasible
	}
	return Optimal
}

// WriteTextfile writes everything in the default registry to path in
// the Prometheus text format.
func WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, prometheus.DefaultGatherer), "writing metrics to %s", path)
}
