package output

import "github.com/zeromicro/go-zero/core/metric"

var (
	saved = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "output",
		Name:      "saved_total",
		Help:      "Outputs written by format",
		Labels:    []string{"format"},
	})

	removed = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "output",
		Name:      "removed_total",
		Help:      "Outputs deleted by reason",
		Labels:    []string{"reason"},
	})
)
