package queue

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// RenderEvent describes one completed generate request.
type RenderEvent struct {
	Output    string
	Format    string
	TextItems int
	SVGItems  int
	Fallbacks int
	Duration  time.Duration
}

// FormatStats aggregates render events for one output format.
type FormatStats struct {
	Format        string  `db:"format" json:"format"`
	Renders       int64   `db:"renders" json:"renders"`
	Fallbacks     int64   `db:"fallbacks" json:"fallbacks"`
	AvgDurationMs float64 `db:"avg_duration_ms" json:"avg_duration_ms"`
}

// EventRecorder batches render event writes using go-zero's BulkInserter.
type EventRecorder struct {
	conn     sqlx.SqlConn
	inserter *sqlx.BulkInserter
}

// NewEventRecorder creates a new event recorder that batches inserts.
func NewEventRecorder(conn sqlx.SqlConn) (*EventRecorder, error) {
	inserter, err := sqlx.NewBulkInserter(conn,
		"insert into `render_events` (`id`, `output`, `format`, `text_items`, `svg_items`, `fallbacks`, `duration_ms`, `created_at`) values (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}

	inserter.SetResultHandler(func(_ sql.Result, err error) {
		if err != nil {
			logx.Errorf("BulkInserter render_events error: %v", err)
		}
	})

	return &EventRecorder{conn: conn, inserter: inserter}, nil
}

// Record batches a render event insert.
func (r *EventRecorder) Record(ev RenderEvent) {
	if err := r.inserter.Insert(
		uuid.New().String(),
		ev.Output,
		ev.Format,
		ev.TextItems,
		ev.SVGItems,
		ev.Fallbacks,
		ev.Duration.Milliseconds(),
		time.Now().UTC().Format(time.DateTime),
	); err != nil {
		logx.Errorf("Failed to record render event: %v", err)
	}
}

// Flush forces all pending events to be written.
func (r *EventRecorder) Flush() {
	r.inserter.Flush()
}

// Stats returns totals per output format.
func (r *EventRecorder) Stats(ctx context.Context) ([]FormatStats, error) {
	var stats []FormatStats
	err := r.conn.QueryRowsCtx(ctx, &stats, `
		SELECT format,
		       COUNT(*) AS renders,
		       COALESCE(SUM(fallbacks), 0) AS fallbacks,
		       COALESCE(AVG(duration_ms), 0.0) AS avg_duration_ms
		FROM render_events
		GROUP BY format
		ORDER BY format
	`)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
