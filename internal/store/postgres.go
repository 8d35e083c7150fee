package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/search"
)

var _ model.CacheStore = (*PostgresStore)(nil)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS job_records (
		id          BIGSERIAL   PRIMARY KEY,
		title       TEXT        NOT NULL,
		description TEXT        NOT NULL,
		company     TEXT,
		location    TEXT,
		url         TEXT,
		date_posted TEXT,
		is_remote   BOOLEAN     NOT NULL DEFAULT TRUE,
		source      TEXT        NOT NULL DEFAULT '',
		fetched_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_job_records_title ON job_records (title)`,
	`CREATE INDEX IF NOT EXISTS idx_job_records_fetched_at ON job_records (fetched_at)`,
}

const postgresSelect = `SELECT id, title, description, company, location, url, date_posted, is_remote, source, fetched_at FROM job_records`

// PostgresStore keeps the job cache in PostgreSQL behind a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore connects to dsn, verifies the connection and ensures the
// job_records table exists.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	o := buildOptions(opts)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating job_records schema: %w", err)
		}
	}

	return &PostgresStore{pool: pool, now: o.now}, nil
}

// HasAnyData returns true if at least one record is cached.
func (s *PostgresStore) HasAnyData(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM job_records)").Scan(&exists); err != nil {
		return false, fmt.Errorf("checking for cached records: %w", err)
	}
	return exists, nil
}

// MostRecentFetchTime returns the newest fetched_at, or nil when empty.
func (s *PostgresStore) MostRecentFetchTime(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	if err := s.pool.QueryRow(ctx, "SELECT MAX(fetched_at) FROM job_records").Scan(&latest); err != nil {
		return nil, fmt.Errorf("reading most recent fetch time: %w", err)
	}
	if latest != nil {
		utc := latest.UTC()
		latest = &utc
	}
	return latest, nil
}

// InsertAll sends the batch inside one transaction; any failed row rolls
// back the whole batch.
func (s *PostgresStore) InsertAll(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	// TIMESTAMPTZ keeps microseconds.
	fetchedAt := s.now().UTC().Truncate(time.Microsecond)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`INSERT INTO job_records
			(title, description, company, location, url, date_posted, is_remote, source, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			search.Normalize(r.Title), r.Description,
			r.Company, r.Location, r.URL, r.DatePosted,
			r.IsRemote, string(r.Source), fetchedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("record %d: %w", i, err)}
		}
	}
	if err := br.Close(); err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("closing batch: %w", err)}
	}

	if err := tx.Commit(ctx); err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// WipeAll deletes every record and returns how many rows were removed.
func (s *PostgresStore) WipeAll(ctx context.Context) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM job_records")
	if err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: fmt.Errorf("commit: %w", err)}
	}
	return tag.RowsAffected(), nil
}

// SearchByTitle filters with strpos per term and ranks in Go.
func (s *PostgresStore) SearchByTitle(ctx context.Context, query string) ([]model.Record, error) {
	query = search.Normalize(query)
	if query == "" {
		return nil, nil
	}

	terms := search.Terms(query)
	clauses := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, t := range terms {
		clauses[i] = fmt.Sprintf("strpos(title, $%d) > 0", i+1)
		args[i] = t
	}

	candidates, err := s.queryRecords(ctx, postgresSelect+" WHERE "+strings.Join(clauses, " AND "), args...)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	results, err := search.Match(query, candidates, func() ([]model.Record, error) {
		return s.queryRecords(ctx, postgresSelect)
	})
	if err != nil {
		return nil, fmt.Errorf("fuzzy searching %q: %w", query, err)
	}
	return results, nil
}

func (s *PostgresStore) queryRecords(ctx context.Context, query string, args ...any) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var (
			r      model.Record
			source string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Company, &r.Location, &r.URL, &r.DatePosted, &r.IsRemote, &source, &r.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning job record: %w", err)
		}
		r.Source = model.ProviderID(source)
		r.FetchedAt = r.FetchedAt.UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
