package mutants

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the analyses counter.
const (
	sourceStore    = "store"
	sourceDetector = "detector"

	resultMutant = "mutant"
	resultHuman  = "human"
)

type metrics struct {
	analyses   *prometheus.CounterVec
	lostRaces  prometheus.Counter
	storeFails *prometheus.CounterVec
}

// newMetrics registers the classification collectors on reg. A nil reg
// yields working but unregistered collectors.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helix",
			Subsystem: "mutants",
			Name:      "analyses_total",
			Help:      "DNA analyses by result and by whether the answer came from the store or the detector.",
		}, []string{"result", "source"}),
		lostRaces: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "helix",
			Subsystem: "mutants",
			Name:      "insert_races_lost_total",
			Help:      "Fresh classifications whose insert found a record already present.",
		}),
		storeFails: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helix",
			Subsystem: "mutants",
			Name:      "store_errors_total",
			Help:      "Classification store failures by operation.",
		}, []string{"op"}),
	}
}

func result(mutant bool) string {
	if mutant {
		return resultMutant
	}
	return resultHuman
}
