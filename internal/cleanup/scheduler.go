package cleanup

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper evicts state unused for longer than maxIdle and reports how much
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

// Scheduler periodically evicts abandoned sessions
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	maxIdle  time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler creates a new cleanup scheduler
func NewScheduler(sweeper Sweeper, interval, maxIdle time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		maxIdle:  maxIdle,
		logger:   logger.Named("cleanup"),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one sweep now and then one per interval
func (s *Scheduler) Start() {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				return
			}
		}
	}()

	s.logger.Info("cleanup scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("max_idle", s.maxIdle))
}

// Stop stops the cleanup scheduler and waits for a running sweep
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		<-s.done
		s.logger.Info("cleanup scheduler stopped")
	})
}

func (s *Scheduler) sweep() {
	if n := s.sweeper.Sweep(s.maxIdle); n > 0 {
		s.logger.Info("cleanup complete", zap.Int("evicted", n))
	}
}
