// Package store provides the cache store implementations: SQLite (default),
// PostgreSQL, Redis and an in-memory store for dry runs and tests.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/amishk599/jobcache/internal/config"
	"github.com/amishk599/jobcache/internal/model"
)

type options struct {
	now    func() time.Time
	prefix string
}

// Option configures a store.
type Option func(*options)

// WithClock overrides the clock used to stamp FetchedAt on insert.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithKeyPrefix namespaces the Redis keys of a RedisStore. Other stores
// ignore it.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open constructs the store selected by cfg.Driver. The caller owns the
// returned handle and must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (model.CacheStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLiteStore(cfg.Path, opts...)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN, opts...)
	case config.DriverRedis:
		return NewRedisStore(ctx, cfg.URL, opts...)
	case config.DriverMemory:
		return NewMemoryStore(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
