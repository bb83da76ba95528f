package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/operator-framework/setcover/pkg/cover"
)

var (
	searchEventMetrics = map[cover.Event]prometheus.Counter{}
)

// Tracer counts traced search events. The counters only exist in
// builds with the experimental_metrics tag; otherwise it does nothing.
type Tracer struct{}

var _ cover.Tracer = Tracer{}

func (Tracer) Trace(p cover.SearchPosition) {
	emitSearchEvent(p.Event())
}

func emitSearchEvent(e cover.Event) {
	if counter, ok := searchEventMetrics[e]; ok {
		counter.Inc()
	}
}
