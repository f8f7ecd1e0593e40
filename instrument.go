package esadapter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mintel/elasticsearch-adapter/internal/pkg/metrics"
)

// operationDuration is the Prometheus metric for adapter operation durations.
var operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: metrics.Namespace,
	Name:      "operation_duration_seconds",
	Help:      "Durations of adapter operations against Elasticsearch.",
	Buckets:   prometheus.DefBuckets,
}, []string{metrics.LabelOperation, metrics.LabelStatus})

// opTimer starts a duration timer for one adapter operation.
func opTimer(op string) *metrics.VecTimer {
	return metrics.NewVecTimer(operationDuration.MustCurryWith(prometheus.Labels{
		metrics.LabelOperation: op,
	}))
}
