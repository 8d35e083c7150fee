// Package gateway queries the upstream job boards in priority order and
// returns the first non-empty result.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amishk599/jobcache/internal/model"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 10 * time.Second

// AttemptStatus is the outcome of one provider call.
type AttemptStatus int

const (
	AttemptSucceeded AttemptStatus = iota // returned at least one record
	AttemptEmpty                          // returned zero records
	AttemptFailed                         // network, status or decode failure
)

func (s AttemptStatus) String() string {
	switch s {
	case AttemptSucceeded:
		return "succeeded"
	case AttemptEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Attempt records one provider call in an ordered-attempt cycle.
type Attempt struct {
	Provider model.ProviderID
	Status   AttemptStatus
	Count    int
	Duration time.Duration
	Err      error
}

// Gateway tries each provider once, in order, until one returns records.
type Gateway struct {
	providers []model.Provider
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a gateway over providers, which must already be in priority
// order. A non-positive timeout uses DefaultTimeout.
func New(providers []model.Provider, timeout time.Duration, logger *slog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{providers: providers, timeout: timeout, logger: logger}
}

// Providers returns the configured providers in the order they are tried.
func (g *Gateway) Providers() []model.ProviderID {
	ids := make([]model.ProviderID, 0, len(g.providers))
	for _, p := range g.providers {
		ids = append(ids, p.ID())
	}
	return ids
}

// Attempts runs the ordered-attempt loop and reports every call made.
// Providers after the first non-empty one are never called. The caller's
// ctx being cancelled stops the loop.
func (g *Gateway) Attempts(ctx context.Context) ([]model.Record, []Attempt) {
	attempts := make([]Attempt, 0, len(g.providers))
	for _, p := range g.providers {
		if ctx.Err() != nil {
			break
		}
		records, a := g.attempt(ctx, p)
		attempts = append(attempts, a)
		if a.Status == AttemptSucceeded {
			return records, attempts
		}
	}
	return nil, attempts
}

func (g *Gateway) attempt(ctx context.Context, p model.Provider) ([]model.Record, Attempt) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	records, err := p.FetchJobs(callCtx)
	a := Attempt{Provider: p.ID(), Duration: time.Since(start)}

	switch {
	case err != nil:
		var fetchErr *model.ProviderFetchError
		if !errors.As(err, &fetchErr) {
			err = &model.ProviderFetchError{Provider: p.ID(), Err: err}
		}
		a.Status = AttemptFailed
		a.Err = err
		return nil, a
	case len(records) == 0:
		a.Status = AttemptEmpty
		return nil, a
	default:
		a.Status = AttemptSucceeded
		a.Count = len(records)
		return records, a
	}
}

// FetchAll returns the records of the first provider that yields any, or an
// empty slice when every provider is empty or failed. It never fails.
func (g *Gateway) FetchAll(ctx context.Context) []model.Record {
	records, attempts := g.Attempts(ctx)
	for _, a := range attempts {
		switch a.Status {
		case AttemptFailed:
			args := []any{"provider", a.Provider, "duration", a.Duration.Round(time.Millisecond), "error", a.Err}
			var fetchErr *model.ProviderFetchError
			if errors.As(a.Err, &fetchErr) && fetchErr.RetryAfter > 0 {
				args = append(args, "retry_after", fetchErr.RetryAfter)
			}
			g.logger.Warn("provider fetch failed", args...)
		case AttemptEmpty:
			g.logger.Info("provider returned no jobs", "provider", a.Provider)
		case AttemptSucceeded:
			g.logger.Info("provider fetch succeeded", "provider", a.Provider, "count", a.Count, "duration", a.Duration.Round(time.Millisecond))
		}
	}
	if len(records) == 0 {
		g.logger.Warn("all providers exhausted", "attempts", len(attempts))
		return []model.Record{}
	}
	return records
}
