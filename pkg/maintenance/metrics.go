package maintenance

import "github.com/zeromicro/go-zero/core/metric"

var (
	jobsDone = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "maintenance",
		Name:      "jobs_done_total",
		Help:      "Total maintenance jobs completed",
		Labels:    []string{"kind"},
	})

	jobsFailed = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "maintenance",
		Name:      "jobs_failed_total",
		Help:      "Total maintenance jobs dropped",
		Labels:    []string{"kind", "reason"},
	})

	jobsRetried = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "textsnap",
		Subsystem: "maintenance",
		Name:      "jobs_retried_total",
		Help:      "Total maintenance job retries",
		Labels:    []string{"kind"},
	})

	jobDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "textsnap",
		Subsystem: "maintenance",
		Name:      "duration_seconds",
		Help:      "Maintenance job duration in seconds",
		Labels:    []string{"kind"},
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	})

	queueDepth = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "textsnap",
		Subsystem: "queue",
		Name:      "depth",
		Help:      "Current queue depth by queue name",
		Labels:    []string{"queue"},
	})
)
