package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/search"

	_ "modernc.org/sqlite"
)

var _ model.CacheStore = (*SQLiteStore)(nil)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS job_records (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT    NOT NULL,
		description TEXT    NOT NULL,
		company     TEXT,
		location    TEXT,
		url         TEXT,
		date_posted TEXT,
		is_remote   INTEGER NOT NULL DEFAULT 1,
		source      TEXT    NOT NULL DEFAULT '',
		fetched_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_job_records_title ON job_records (title)`,
	`CREATE INDEX IF NOT EXISTS idx_job_records_fetched_at ON job_records (fetched_at)`,
}

const sqliteSelect = `SELECT id, title, description, company, location, url, date_posted, is_remote, source, fetched_at FROM job_records`

// SQLiteStore keeps the job cache in a SQLite database. fetched_at is stored
// as UTC unix nanoseconds so MAX() orders correctly.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the job_records table exists.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := buildOptions(opts)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One connection serializes writers and avoids SQLITE_BUSY between the
	// wipe and insert transactions.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating job_records schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: o.now}, nil
}

// HasAnyData returns true if at least one record is cached.
func (s *SQLiteStore) HasAnyData(ctx context.Context) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM job_records LIMIT 1").Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking for cached records: %w", err)
	}
	return true, nil
}

// MostRecentFetchTime returns the newest fetched_at, or nil when empty.
func (s *SQLiteStore) MostRecentFetchTime(ctx context.Context) (*time.Time, error) {
	var latest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(fetched_at) FROM job_records").Scan(&latest); err != nil {
		return nil, fmt.Errorf("reading most recent fetch time: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	t := time.Unix(0, latest.Int64).UTC()
	return &t, nil
}

// InsertAll stores the batch in one transaction. Titles are normalized and
// every record gets the same FetchedAt. Any failure rolls back the batch.
func (s *SQLiteStore) InsertAll(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	fetchedAt := s.now().UTC().UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO job_records
		(title, description, company, location, url, date_posted, is_remote, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("prepare: %w", err)}
	}
	defer stmt.Close()

	for i, r := range records {
		isRemote := 0
		if r.IsRemote {
			isRemote = 1
		}
		_, err := stmt.ExecContext(ctx,
			search.Normalize(r.Title), r.Description,
			r.Company, r.Location, r.URL, r.DatePosted,
			isRemote, string(r.Source), fetchedAt,
		)
		if err != nil {
			return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("record %d: %w", i, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// WipeAll deletes every record and returns how many rows were removed.
func (s *SQLiteStore) WipeAll(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM job_records")
	if err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: err}
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: fmt.Errorf("rows affected: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: fmt.Errorf("commit: %w", err)}
	}
	return removed, nil
}

// SearchByTitle pushes the AND-of-substrings filter into SQL and ranks the
// survivors in Go; the fuzzy fallback reads every row.
func (s *SQLiteStore) SearchByTitle(ctx context.Context, query string) ([]model.Record, error) {
	query = search.Normalize(query)
	if query == "" {
		return nil, nil
	}

	terms := search.Terms(query)
	clauses := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, t := range terms {
		clauses[i] = "instr(title, ?) > 0"
		args[i] = t
	}

	candidates, err := s.queryRecords(ctx, sqliteSelect+" WHERE "+strings.Join(clauses, " AND "), args...)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	results, err := search.Match(query, candidates, func() ([]model.Record, error) {
		return s.queryRecords(ctx, sqliteSelect)
	})
	if err != nil {
		return nil, fmt.Errorf("fuzzy searching %q: %w", query, err)
	}
	return results, nil
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...any) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var (
			r                                   model.Record
			company, location, url, datePosted sql.NullString
			isRemote, fetchedAt                 int64
			source                              string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &company, &location, &url, &datePosted, &isRemote, &source, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning job record: %w", err)
		}
		r.Company = nullString(company)
		r.Location = nullString(location)
		r.URL = nullString(url)
		r.DatePosted = nullString(datePosted)
		r.IsRemote = isRemote != 0
		r.Source = model.ProviderID(source)
		r.FetchedAt = time.Unix(0, fetchedAt).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
