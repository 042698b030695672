package fetch

import "github.com/zeromicro/go-zero/core/metric"

var (
	fetches = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "fetch",
		Name:      "requests_total",
		Help:      "Remote downloads by result",
		Labels:    []string{"result"},
	})

	fetchDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "textsnap",
		Subsystem: "fetch",
		Name:      "duration_seconds",
		Help:      "Successful download duration in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)
