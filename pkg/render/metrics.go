package render

import "github.com/zeromicro/go-zero/core/metric"

var (
	itemsDrawn = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "render",
		Name:      "items_total",
		Help:      "Overlay items by kind and result",
		Labels:    []string{"kind", "result"},
	})

	composeDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "textsnap",
		Subsystem: "render",
		Name:      "compose_duration_ms",
		Help:      "Time spent compositing one image in milliseconds",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)
