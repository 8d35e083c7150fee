package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobcache/internal/model"
)

// Engine turns free-text title queries into ranked records.
type Engine struct {
	store  model.CacheStore
	logger *slog.Logger
}

// NewEngine creates an engine that searches store.
func NewEngine(store model.CacheStore, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Search normalizes raw and delegates to the store. An empty result means
// "no match" and is not an error.
func (e *Engine) Search(ctx context.Context, raw string) ([]model.Record, error) {
	query := Normalize(raw)
	if query == "" {
		e.logger.Debug("query normalized to empty", "raw", raw)
		return nil, nil
	}

	results, err := e.store.SearchByTitle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	e.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}
