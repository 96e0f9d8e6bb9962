package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Scheduler runs a sweep on a fixed interval. A tick that arrives while a
// sweep is still running is dropped.
type Scheduler struct {
	job      *SweepJob
	interval time.Duration
	clock    clockwork.Clock
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler. clock may be nil for the real clock.
func NewScheduler(job *SweepJob, interval time.Duration, clock clockwork.Clock, logger zerolog.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{job: job, interval: interval, clock: clock, logger: logger}
}

// Start sweeps once immediately and then on every tick until ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("sweep scheduler started")
	s.TriggerAsync(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweep scheduler stopped")
			return
		case <-ticker.Chan():
			s.TriggerAsync(ctx)
		}
	}
}

// TriggerAsync starts a sweep in the background unless one is running.
// It reports whether a sweep was started.
func (s *Scheduler) TriggerAsync(ctx context.Context) bool {
	if !s.acquire() {
		s.logger.Debug().Msg("sweep already running, skipping tick")
		return false
	}
	go func() {
		defer s.release()
		s.job.Run(ctx)
	}()
	return true
}

// Running reports whether a sweep is in progress.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
