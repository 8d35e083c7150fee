// Package scheduler keeps the cache warm by running the refresh policy on a
// cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/jobcache/internal/config"
	"github.com/amishk599/jobcache/internal/refresh"
)

// Refresher is satisfied by *refresh.Policy.
type Refresher interface {
	EnsureFresh(ctx context.Context) (refresh.Outcome, error)
}

// Scheduler runs the refresh policy so lookups rarely pay for a repopulate.
type Scheduler struct {
	refresher Refresher
	schedule  cron.Schedule
	logger    *slog.Logger
}

// NewScheduler creates a scheduler that checks the cache on schedule.
func NewScheduler(refresher Refresher, schedule cron.Schedule, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		schedule:  schedule,
		logger:    logger,
	}
}

// ScheduleFor returns the parsed refresh.schedule expression, or a fixed
// refresh.check_interval when no expression is set. Intervals are rounded up
// to whole seconds.
func ScheduleFor(cfg config.RefreshConfig) (cron.Schedule, error) {
	if cfg.Schedule == "" {
		return cron.Every(cfg.CheckInterval), nil
	}
	sched, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", cfg.Schedule, err)
	}
	return sched, nil
}

// Run runs one immediate check, then one per schedule activation. A check
// still running when the next one is due is skipped. Run returns nil when ctx
// is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	logger := cronLogger{s.logger}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.check(ctx) }))

	s.logger.Info("starting scheduler", "next", s.schedule.Next(time.Now()).Format(time.RFC3339))
	s.check(ctx)
	c.Start()

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) check(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	outcome, err := s.refresher.EnsureFresh(ctx)
	if err != nil {
		s.logger.Error("refresh check failed", "error", err)
		return
	}
	s.logger.Info("refresh check complete", "outcome", outcome)
}

// cronLogger routes cron's internal logging to slog at debug level.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
