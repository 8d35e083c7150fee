package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/amishk599/jobcache/internal/model"
)

func newTestStore(t *testing.T, clock *testClock) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath, WithClock(clock.Now))
	must(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T, clock *testClock) model.CacheStore {
		return newTestStore(t, clock)
	})
}

func TestSQLiteInsertAllRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newTestClock())

	_, err := s.db.Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON job_records
		WHEN NEW.title = 'boom'
		BEGIN SELECT RAISE(ABORT, 'boom rejected'); END;`)
	must(t, err)

	err = s.InsertAll(ctx, []model.Record{rec("Backend Developer"), rec("Boom"), rec("Data Analyst")})
	if !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("InsertAll err = %v, want ErrPersistence", err)
	}
	var perr *model.PersistenceError
	if !errors.As(err, &perr) || perr.Op != "insert" {
		t.Errorf("err = %#v, want insert PersistenceError", err)
	}
	if hasData(t, s) {
		t.Error("partial batch is visible after rollback")
	}
}

func TestSQLiteWipeAllRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newTestClock())
	must(t, s.InsertAll(ctx, []model.Record{rec("Backend Developer"), rec("Data Analyst")}))

	_, err := s.db.Exec(`CREATE TRIGGER keep_rows BEFORE DELETE ON job_records
		BEGIN SELECT RAISE(ABORT, 'delete rejected'); END;`)
	must(t, err)

	if _, err := s.WipeAll(ctx); !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("WipeAll err = %v, want ErrPersistence", err)
	}
	if got := searchTitles(t, s, "developer"); len(got) != 1 {
		t.Errorf("after failed wipe: %v, want the backend developer record", titles(got))
	}
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := NewSQLiteStore(dbPath, WithClock(clock.Now))
	must(t, err)
	must(t, s.InsertAll(ctx, []model.Record{rec("Platform Engineer")}))
	must(t, s.Close())

	s, err = NewSQLiteStore(dbPath)
	must(t, err)
	defer s.Close()

	if latest := latestFetch(t, s); latest == nil || !latest.Equal(clock.Now()) {
		t.Errorf("MostRecentFetchTime after reopen = %v, want %s", latest, clock.Now())
	}
}
