package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// ReminderScheduler runs Sweep on a cron schedule. Standard five-field
// expressions and descriptors such as "@every 30s" are accepted. A tick that
// fires while the previous sweep is still running is skipped.
type ReminderScheduler struct {
	sweeper Sweeper
	spec    string
	cron    *cron.Cron

	mu        sync.Mutex
	isRunning bool
}

func NewReminderScheduler(sweeper Sweeper, spec string) *ReminderScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &ReminderScheduler{
		sweeper: sweeper,
		spec:    spec,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
	}
}

// Start registers the sweep job and starts the scheduler. Sweeps run with
// ctx, so cancelling it aborts an in-flight batch.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler already running")
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		processed, err := s.sweeper.Sweep(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Scheduled sweep failed", "error", err)
			return
		}
		if processed > 0 {
			slog.InfoContext(ctx, "Scheduled sweep finished", "processed", processed)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid scheduler spec %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.isRunning = true
	slog.InfoContext(ctx, "Reminder scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *ReminderScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	slog.InfoContext(ctx, "Stopping reminder scheduler")
	<-s.cron.Stop().Done()
	s.isRunning = false
	slog.InfoContext(ctx, "Reminder scheduler stopped")
}
