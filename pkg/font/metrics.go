package font

import "github.com/zeromicro/go-zero/core/metric"

var (
	resolutions = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "font",
		Name:      "resolutions_total",
		Help:      "Font resolutions by matching tier",
		Labels:    []string{"tier"},
	})

	fallbacks = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "font",
		Name:      "fallbacks_total",
		Help:      "Requests served with the default font",
		Labels:    []string{"reason"},
	})

	conversions = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "font",
		Name:      "conversions_total",
		Help:      "Web font conversions by format and result",
		Labels:    []string{"format", "result"},
	})

	rebuildDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "textsnap",
		Subsystem: "font",
		Name:      "index_rebuild_seconds",
		Help:      "Font index rebuild duration in seconds",
		Labels:    []string{"result"},
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	})

	indexedFonts = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "textsnap",
		Subsystem: "font",
		Name:      "indexed",
		Help:      "Records in the font index after the last rebuild",
		Labels:    []string{"kind"},
	})

	faceLoads = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "font",
		Name:      "face_loads_total",
		Help:      "Font faces parsed into the object cache",
		Labels:    []string{"result"},
	})
)
