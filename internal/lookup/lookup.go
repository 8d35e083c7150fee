// Package lookup is the inbound operation: make sure the cache is fresh,
// then search it.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/refresh"
)

// Freshener is satisfied by *refresh.Policy.
type Freshener interface {
	EnsureFresh(ctx context.Context) (refresh.Outcome, error)
}

// Searcher is satisfied by *search.Engine.
type Searcher interface {
	Search(ctx context.Context, raw string) ([]model.Record, error)
}

// RefreshError is returned alongside results when the refresh step failed
// and the search ran against whatever the store still held.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh before lookup: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Service answers title lookups.
type Service struct {
	policy   Freshener
	searcher Searcher
	logger   *slog.Logger

	// Limit caps the number of returned records; zero means no cap.
	Limit int
}

// NewService wires a lookup service.
func NewService(policy Freshener, searcher Searcher, logger *slog.Logger) *Service {
	return &Service{policy: policy, searcher: searcher, logger: logger}
}

// Records runs the refresh policy then the ranked search and returns the
// records in rank order. A failed refresh does not prevent the search; its
// error is returned as a *RefreshError with the results.
func (s *Service) Records(ctx context.Context, title string) ([]model.Record, error) {
	var refreshErr error
	outcome, err := s.policy.EnsureFresh(ctx)
	if err != nil {
		s.logger.Error("refresh failed, serving remaining cache", "error", err)
		refreshErr = &RefreshError{Err: err}
	} else {
		s.logger.Debug("refresh checked", "outcome", outcome)
	}

	results, err := s.searcher.Search(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", title, err)
	}
	if s.Limit > 0 && len(results) > s.Limit {
		results = results[:s.Limit]
	}
	s.logger.Info("lookup complete", "query", title, "results", len(results))
	return results, refreshErr
}

// Lookup is Records mapped to the external view shape.
func (s *Service) Lookup(ctx context.Context, title string) ([]model.RecordView, error) {
	records, err := s.Records(ctx, title)
	var refreshErr *RefreshError
	if err != nil && !errors.As(err, &refreshErr) {
		return nil, err
	}
	return model.Views(records), err
}
