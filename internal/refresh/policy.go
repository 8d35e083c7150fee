// Package refresh decides on each lookup whether the cache must be
// repopulated from the upstream providers.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amishk599/jobcache/internal/model"
)

// StalenessThreshold is the age at which cached data is replaced.
const StalenessThreshold = 24 * time.Hour

// Fetcher supplies a full generation of records. *gateway.Gateway satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context) []model.Record
}

// State classifies the cache contents.
type State int

const (
	StateEmpty State = iota
	StateFresh
	StateStale
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFresh:
		return "fresh"
	default:
		return "stale"
	}
}

// Outcome reports what EnsureFresh or Refresh did.
type Outcome int

const (
	OutcomeFresh         Outcome = iota // nothing to do
	OutcomePopulated                    // empty store filled
	OutcomeUpstreamEmpty                // every provider empty or failed; store left empty
	OutcomeRefreshed                    // stale generation replaced
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomePopulated:
		return "populated"
	case OutcomeUpstreamEmpty:
		return "upstream_empty"
	default:
		return "refreshed"
	}
}

// Status is a snapshot of the cache state.
type Status struct {
	State     State
	LastFetch *time.Time    // nil when empty
	Age       time.Duration // zero when empty
}

// Policy runs the EMPTY / FRESH / STALE state machine against a store. At
// most one check-and-refresh sequence runs at a time; concurrent callers
// wait for it and share its outcome.
type Policy struct {
	store   model.CacheStore
	fetcher Fetcher
	now     func() time.Time
	logger  *slog.Logger

	group singleflight.Group
	mu    sync.Mutex // serializes EnsureFresh and Refresh sequences
}

// Option configures a Policy.
type Option func(*Policy)

// WithClock overrides the clock used for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(p *Policy) { p.now = now }
}

// New creates a refresh policy over store, repopulating from fetcher.
func New(store model.CacheStore, fetcher Fetcher, logger *slog.Logger, opts ...Option) *Policy {
	p := &Policy{
		store:   store,
		fetcher: fetcher,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check reports the current cache state without changing it.
func (p *Policy) Check(ctx context.Context) (Status, error) {
	has, err := p.store.HasAnyData(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("checking cache: %w", err)
	}
	if !has {
		return Status{State: StateEmpty}, nil
	}

	latest, err := p.store.MostRecentFetchTime(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("checking cache age: %w", err)
	}
	if latest == nil {
		return Status{State: StateEmpty}, nil
	}

	age := p.now().Sub(*latest)
	st := Status{State: StateFresh, LastFetch: latest, Age: age}
	if age >= StalenessThreshold {
		st.State = StateStale
	}
	return st, nil
}

// EnsureFresh populates an empty store or replaces a stale one. A failure
// before the wipe leaves the previous data in place; an insert failure after
// the wipe leaves the store empty and is returned.
//
// The check-and-refresh sequence is shared by every concurrent caller and is
// not bound to any one caller's ctx; the gateway's per-provider timeout
// bounds it instead. A caller whose ctx ends stops waiting and gets ctx.Err().
func (p *Policy) EnsureFresh(ctx context.Context) (Outcome, error) {
	return p.shared(ctx, "ensure", p.ensureFresh)
}

func (p *Policy) shared(ctx context.Context, key string, fn func(context.Context) (Outcome, error)) (Outcome, error) {
	detached := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		return fn(detached)
	})

	select {
	case res := <-ch:
		if res.Shared {
			p.logger.Debug("joined in-flight refresh", "key", key)
		}
		return res.Val.(Outcome), res.Err
	case <-ctx.Done():
		p.logger.Debug("stopped waiting for refresh", "key", key, "error", ctx.Err())
		return OutcomeFresh, ctx.Err()
	}
}

func (p *Policy) ensureFresh(ctx context.Context) (Outcome, error) {
	st, err := p.Check(ctx)
	if err != nil {
		return OutcomeFresh, err
	}

	switch st.State {
	case StateEmpty:
		p.logger.Info("cache empty, populating")
		return p.populate(ctx, OutcomePopulated)
	case StateStale:
		p.logger.Info("cache stale, refreshing", "state", st.State, "age", st.Age.Round(time.Second))
		return p.replace(ctx)
	default:
		p.logger.Debug("cache fresh", "state", st.State, "age", st.Age.Round(time.Second))
		return OutcomeFresh, nil
	}
}

// Refresh wipes and repopulates regardless of staleness.
func (p *Policy) Refresh(ctx context.Context) (Outcome, error) {
	return p.shared(ctx, "refresh", func(ctx context.Context) (Outcome, error) {
		p.logger.Info("forced refresh")
		return p.replace(ctx)
	})
}

func (p *Policy) replace(ctx context.Context) (Outcome, error) {
	removed, err := p.store.WipeAll(ctx)
	if err != nil {
		return OutcomeFresh, fmt.Errorf("wiping stale cache: %w", err)
	}
	p.logger.Info("wiped cache", "removed", removed)
	return p.populate(ctx, OutcomeRefreshed)
}

func (p *Policy) populate(ctx context.Context, success Outcome) (Outcome, error) {
	records := p.fetcher.FetchAll(ctx)
	if len(records) == 0 {
		if err := ctx.Err(); err != nil {
			return OutcomeFresh, fmt.Errorf("refresh interrupted: %w", err)
		}
		p.logger.Warn("no records from any provider, cache left empty", "outcome", OutcomeUpstreamEmpty)
		return OutcomeUpstreamEmpty, nil
	}

	if err := p.store.InsertAll(ctx, records); err != nil {
		return success, fmt.Errorf("populating cache: %w", err)
	}
	p.logger.Info("cache populated", "inserted", len(records), "outcome", success)
	return success, nil
}
