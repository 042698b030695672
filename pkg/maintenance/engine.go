// Package maintenance runs background jobs: output expiry and font reindexing.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/joeblew999/plat-textsnap/pkg/output"
	"github.com/joeblew999/plat-textsnap/pkg/queue"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/rescue"
	"github.com/zeromicro/go-zero/core/syncx"
	"github.com/zeromicro/go-zero/core/threading"
	"maragu.dev/goqite"
)

// Config holds maintenance engine configuration.
type Config struct {
	Workers      int
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
	JobTimeout   time.Duration // visibility extension for long jobs
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:      1,
		RetryBackoff: 10 * time.Second,
		MaxBackoff:   10 * time.Minute,
		JobTimeout:   time.Minute,
	}
}

// Outputs deletes rendered outputs. *output.Store satisfies it.
type Outputs interface {
	Remove(name string) error
}

// Fonts rebuilds the font index. *font.Manager satisfies it.
type Fonts interface {
	Reindex(ctx context.Context) (int, error)
}

// Engine processes maintenance jobs with retry logic.
type Engine struct {
	config  Config
	queue   *queue.Queue
	outputs Outputs
	fonts   Fonts
	running *syncx.AtomicBool

	ctx    context.Context
	cancel context.CancelFunc
	group  *threading.RoutineGroup
}

// NewEngine creates a new maintenance engine.
func NewEngine(q *queue.Queue, outputs Outputs, fonts Fonts, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = def.RetryBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		config:  cfg,
		queue:   q,
		outputs: outputs,
		fonts:   fonts,
		running: syncx.NewAtomicBool(),
		ctx:     ctx,
		cancel:  cancel,
		group:   threading.NewRoutineGroup(),
	}
}

// Start starts the configured number of workers. It implements
// service.Service.
func (e *Engine) Start() {
	if !e.running.CompareAndSwap(false, true) {
		return // Already running
	}

	logx.Infow("Maintenance engine started", logx.Field("workers", e.config.Workers))
	for i := 0; i < e.config.Workers; i++ {
		e.group.RunSafe(e.worker)
	}
}

// Stop gracefully stops the engine. It implements service.Service.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return // Already stopped
	}

	logx.Info("Maintenance engine stopping, waiting for workers")
	e.cancel()
	e.group.Wait()
	logx.Info("Maintenance engine stopped")
}

func (e *Engine) worker() {
	backoff := 100 * time.Millisecond
	const maxBackoff = 5 * time.Second

	for {
		select {
		case <-e.ctx.Done():
			return
		default:
		}

		worked, err := e.RunOnce(e.ctx)
		if err != nil && e.ctx.Err() == nil {
			logx.Errorf("Maintenance receive failed: %v", err)
		}
		if worked {
			backoff = 100 * time.Millisecond // Reset on work found
			continue
		}

		// No work available, adaptive backoff
		e.updateQueueDepth()
		select {
		case <-e.ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// RunOnce receives and processes at most one job. It reports whether a
// message was taken off the queue.
func (e *Engine) RunOnce(ctx context.Context) (bool, error) {
	job, msg, err := e.queue.Receive(ctx)
	if err != nil {
		if msg != nil {
			// Undecodable body; it can never succeed.
			jobsFailed.Inc("unknown", "malformed")
			return true, e.queue.Delete(ctx, msg)
		}
		return false, err
	}
	if job == nil {
		return false, nil
	}

	e.processJob(ctx, job, msg)
	return true, nil
}

func (e *Engine) processJob(ctx context.Context, job *queue.Job, msg *goqite.Message) {
	// Enrich context with per-job fields, all logx calls with ctx include these automatically
	ctx = logx.ContextWithFields(ctx,
		logx.Field("job_id", job.ID),
		logx.Field("kind", job.Kind),
		logx.Field("attempt", job.Attempts+1),
	)

	// Panic recovery: cleanups always run, so only a job that did not
	// complete is dropped and counted.
	completed := false
	defer rescue.RecoverCtx(ctx, func() {
		if !completed {
			jobsFailed.Inc(job.Kind, "panic")
			_ = e.queue.Delete(ctx, msg)
		}
	})

	e.runJob(ctx, job, msg)
	completed = true
}

func (e *Engine) runJob(ctx context.Context, job *queue.Job, msg *goqite.Message) {
	start := time.Now()
	err := e.execute(ctx, job, msg)
	if err != nil {
		e.handleError(ctx, job, msg, err)
		return
	}

	if err := e.queue.Delete(ctx, msg); err != nil {
		logx.WithContext(ctx).Errorf("Delete completed job: %v", err)
	}
	jobsDone.Inc(job.Kind)
	jobDuration.ObserveFloat(time.Since(start).Seconds(), job.Kind)
	logx.WithContext(ctx).Debug("Maintenance job done")
}

func (e *Engine) execute(ctx context.Context, job *queue.Job, msg *goqite.Message) error {
	switch job.Kind {
	case queue.KindExpireOutput:
		err := e.outputs.Remove(job.Output)
		if errors.Is(err, output.ErrNotFound) {
			return nil // already gone
		}
		return err

	case queue.KindReindex:
		if err := e.queue.Extend(ctx, msg, e.config.JobTimeout); err != nil {
			return fmt.Errorf("extend: %w", err)
		}
		n, err := e.fonts.Reindex(ctx)
		if err != nil {
			return err
		}
		logx.WithContext(ctx).Infow("Font index rebuilt", logx.Field("fonts", n))
		return nil

	default:
		return fmt.Errorf("%w: unknown kind %q", errPermanent, job.Kind)
	}
}

var errPermanent = errors.New("permanent failure")

func (e *Engine) handleError(ctx context.Context, job *queue.Job, msg *goqite.Message, err error) {
	permanent := isPermanentFailure(err)
	if permanent || job.Attempts+1 >= job.MaxAttempts {
		reason := "exhausted"
		if permanent {
			reason = "permanent"
		}
		jobsFailed.Inc(job.Kind, reason)
		logx.WithContext(ctx).Errorf("Maintenance job failed permanently: %v", err)
		if err := e.queue.Delete(ctx, msg); err != nil {
			logx.WithContext(ctx).Errorf("Delete failed job: %v", err)
		}
		return
	}

	// Schedule retry with backoff
	backoff := e.calculateBackoff(job.Attempts + 1)
	if err := e.queue.Retry(ctx, msg, *job, backoff); err != nil {
		logx.WithContext(ctx).Errorf("Requeue job: %v", err)
		return
	}
	jobsRetried.Inc(job.Kind)
	logx.WithContext(ctx).Infof("Maintenance job retrying in %s: %v", backoff, err)
}

func (e *Engine) calculateBackoff(attempts int) time.Duration {
	backoff := e.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempts-1)))
	if backoff > e.config.MaxBackoff {
		return e.config.MaxBackoff
	}
	return backoff
}

// isPermanentFailure reports errors that retrying cannot fix.
func isPermanentFailure(err error) bool {
	return errors.Is(err, errPermanent) || errors.Is(err, output.ErrInvalidName)
}

// updateQueueDepth refreshes the queue depth gauge.
func (e *Engine) updateQueueDepth() {
	n, err := e.queue.Pending(e.ctx)
	if err != nil {
		return
	}
	queueDepth.Set(float64(n), e.queue.Name())
}
