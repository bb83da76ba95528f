//go:build experimental_metrics
// +build experimental_metrics

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/operator-framework/setcover/pkg/cover"
)

func init() {
	// Register experimental metrics
	searchEventMetrics = eventCounters(cover.Improved, cover.Infeasible)
	registerEventMetrics()
}

func eventCounters(events ...cover.Event) map[cover.Event]prometheus.Counter {
	result := map[cover.Event]prometheus.Counter{}
	for _, e := range events {
		result[e] = createEventCounter(e)
	}
	return result
}

func createEventCounter(e cover.Event) prometheus.Counter {
	return prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setcover_search_" + e.String() + "_total",
			Help: fmt.Sprintf("Count of %s events traced during search", e),
		},
	)
}

func registerEventMetrics() {
	for _, v := range searchEventMetrics {
		prometheus.MustRegister(v)
	}
}
