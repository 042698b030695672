package server

import (
	"time"

	"github.com/joeblew999/plat-textsnap/pkg/output"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"
)

// sweepService removes outputs older than the retention period on a fixed
// interval. It catches files whose expiry job was lost, for example after
// the database was replaced.
type sweepService struct {
	store     *output.Store
	retention time.Duration
	interval  time.Duration
	done      chan struct{}
	routines  *threading.RoutineGroup
}

func newSweepService(store *output.Store, retention, interval time.Duration) *sweepService {
	return &sweepService{
		store:     store,
		retention: retention,
		interval:  interval,
		done:      make(chan struct{}),
		routines:  threading.NewRoutineGroup(),
	}
}

func (s *sweepService) Start() {
	if s.interval <= 0 || s.retention <= 0 {
		logx.Info("Output sweeper disabled")
		return
	}

	s.routines.RunSafe(func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	})
}

func (s *sweepService) Stop() {
	close(s.done)
	s.routines.Wait()
}

func (s *sweepService) sweep() {
	n, err := s.store.Sweep(s.retention)
	if err != nil {
		logx.Errorf("Output sweep failed: %v", err)
		return
	}
	if n > 0 {
		logx.Infow("Expired outputs swept", logx.Field("removed", n))
	}
}
