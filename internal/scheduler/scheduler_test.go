package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/jobcache/internal/config"
	"github.com/amishk599/jobcache/internal/refresh"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) EnsureFresh(_ context.Context) (refresh.Outcome, error) {
	r.calls.Add(1)
	return refresh.OutcomeFresh, r.err
}

// every is a sub-second schedule; cron.Every rounds up to whole seconds.
type every time.Duration

func (e every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ImmediateCheckThenStops(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, cron.Every(time.Hour), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for r.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected an immediate refresh check")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	if got := r.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 with a 1h interval", got)
	}
}

func TestRun_TicksOnInterval(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, every(10*time.Millisecond), discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := r.calls.Load(); got < 3 {
		t.Errorf("calls = %d, want at least 3", got)
	}
}

func TestRun_ErrorsDoNotStopLoop(t *testing.T) {
	r := &countingRefresher{err: errors.New("db locked")}
	s := NewScheduler(r, every(10*time.Millisecond), discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := r.calls.Load(); got < 2 {
		t.Errorf("calls = %d, want the loop to keep going after errors", got)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	r := &countingRefresher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewScheduler(r, cron.Every(time.Hour), discardLogger()).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := r.calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 for a cancelled context", got)
	}
}

func TestScheduleFor(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sched, err := ScheduleFor(config.RefreshConfig{CheckInterval: 30 * time.Minute})
	if err != nil {
		t.Fatalf("ScheduleFor: %v", err)
	}
	if got := sched.Next(base); !got.Equal(base.Add(30 * time.Minute)) {
		t.Errorf("interval Next = %v", got)
	}

	sched, err = ScheduleFor(config.RefreshConfig{CheckInterval: time.Hour, Schedule: "0 */6 * * *"})
	if err != nil {
		t.Fatalf("ScheduleFor: %v", err)
	}
	if got, want := sched.Next(base), time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("cron Next = %v, want %v", got, want)
	}

	if _, err := ScheduleFor(config.RefreshConfig{Schedule: "not a schedule"}); err == nil {
		t.Error("expected an error for an invalid expression")
	}
}
