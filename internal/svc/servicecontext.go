// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"
	"fmt"
	"os"

	"github.com/joeblew999/plat-textsnap/internal/config"
	"github.com/joeblew999/plat-textsnap/pkg/db"
	"github.com/joeblew999/plat-textsnap/pkg/fetch"
	"github.com/joeblew999/plat-textsnap/pkg/font"
	"github.com/joeblew999/plat-textsnap/pkg/output"
	"github.com/joeblew999/plat-textsnap/pkg/queue"
	"github.com/joeblew999/plat-textsnap/pkg/render"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

type ServiceContext struct {
	Config     config.Config
	DB         *db.DB
	Fonts      *font.Manager
	Fetcher    *fetch.Fetcher
	Compositor *render.Compositor
	Outputs    *output.Store
	Queue      *queue.Queue
	Events     *queue.EventRecorder
}

// NewServiceContext opens the database, builds the font core and indexes the
// font library once.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	// Parallel initialization: the default font and the database are independent
	var (
		database *db.DB
		def      *font.DefaultFont
	)
	err := mr.Finish(
		func() error {
			var e error
			database, e = db.Open(c.Database.Path)
			return e
		},
		func() error {
			def = font.LoadDefaultFont(c.Fonts.Default)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	s, err := build(c, database, def)
	if err != nil {
		database.Close()
		return nil, err
	}
	return s, nil
}

func build(c config.Config, database *db.DB, def *font.DefaultFont) (*ServiceContext, error) {
	if err := os.MkdirAll(c.Fonts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create font dir: %w", err)
	}

	// go-zero sqlx.SqlConn for circuit breaking + tracing
	conn := database.SqlConn()
	registry := font.NewRegistry(conn)

	faces, err := font.NewFaceCache(c.Fonts.CacheLimit, c.Fonts.CacheTTL, def)
	if err != nil {
		return nil, fmt.Errorf("face cache: %w", err)
	}

	fonts := font.NewManager(
		font.NewIndex(c.Fonts.Dir, registry, c.Fonts.VariantTags),
		font.NewResolver(registry),
		font.NewConverter(c.Fonts.CacheDir),
		faces,
	)

	n, err := fonts.Reindex(context.Background())
	if err != nil {
		return nil, fmt.Errorf("index fonts: %w", err)
	}

	outputs, err := output.NewStore(c.Output.Dir)
	if err != nil {
		return nil, err
	}

	q, err := queue.NewQueue(database.DB, c.Maintenance.Queue)
	if err != nil {
		return nil, err
	}

	events, err := queue.NewEventRecorder(conn)
	if err != nil {
		return nil, fmt.Errorf("event recorder: %w", err)
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:   c.Fetch.Timeout,
		MaxBytes:  c.Fetch.MaxBytes,
		MaxPixels: c.Fetch.MaxPixels,
		RateLimit: c.Fetch.RateLimit,
		Burst:     c.Fetch.Burst,
	})

	logx.Infow("Font library indexed",
		logx.Field("fonts", n),
		logx.Field("dir", c.Fonts.Dir),
		logx.Field("default_font", def.Name()),
	)

	return &ServiceContext{
		Config:     c,
		DB:         database,
		Fonts:      fonts,
		Fetcher:    fetcher,
		Compositor: render.NewCompositor(fonts, fetcher),
		Outputs:    outputs,
		Queue:      q,
		Events:     events,
	}, nil
}

// Close flushes pending render events and closes the database.
func (s *ServiceContext) Close() error {
	s.Events.Flush()
	return s.DB.Close()
}
