package store

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/amishk599/jobcache/internal/model"
)

// testClock is microsecond aligned so every backend round-trips it exactly.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 123456000, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type storeFactory func(t *testing.T, clock *testClock) model.CacheStore

func rec(title string) model.Record {
	return model.Record{Title: title, Description: title + " role", IsRemote: true, Source: model.ProviderRemotive}
}

func titles(records []model.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func hasData(t *testing.T, s model.CacheStore) bool {
	t.Helper()
	has, err := s.HasAnyData(context.Background())
	must(t, err)
	return has
}

func latestFetch(t *testing.T, s model.CacheStore) *time.Time {
	t.Helper()
	latest, err := s.MostRecentFetchTime(context.Background())
	must(t, err)
	return latest
}

func searchTitles(t *testing.T, s model.CacheStore, query string) []model.Record {
	t.Helper()
	got, err := s.SearchByTitle(context.Background(), query)
	must(t, err)
	return got
}

// runStoreContract exercises the behaviour every CacheStore must share.
func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		s := newStore(t, newTestClock())

		if hasData(t, s) {
			t.Error("HasAnyData = true on an empty store")
		}
		if latest := latestFetch(t, s); latest != nil {
			t.Errorf("MostRecentFetchTime = %v, want nil", latest)
		}
		if got := searchTitles(t, s, "software engineer"); len(got) != 0 {
			t.Errorf("SearchByTitle = %v, want empty", titles(got))
		}
	})

	t.Run("insert assigns ids and fetch time", func(t *testing.T) {
		clock := newTestClock()
		s := newStore(t, clock)

		must(t, s.InsertAll(ctx, []model.Record{rec("Backend Developer"), rec("Data Analyst")}))

		if !hasData(t, s) {
			t.Error("HasAnyData = false after insert")
		}
		if latest := latestFetch(t, s); latest == nil || !latest.Equal(clock.Now()) {
			t.Errorf("MostRecentFetchTime = %v, want %s", latest, clock.Now())
		}

		got := searchTitles(t, s, "Backend Developer")
		if len(got) != 1 {
			t.Fatalf("SearchByTitle = %v, want 1 record", titles(got))
		}
		if got[0].Title != "backend developer" {
			t.Errorf("Title = %q, want backend developer", got[0].Title)
		}
		if got[0].ID == 0 {
			t.Error("ID not assigned")
		}
		if !got[0].FetchedAt.Equal(clock.Now()) {
			t.Errorf("FetchedAt = %s, want %s", got[0].FetchedAt, clock.Now())
		}
	})

	t.Run("most recent fetch time tracks latest batch", func(t *testing.T) {
		clock := newTestClock()
		s := newStore(t, clock)

		must(t, s.InsertAll(ctx, []model.Record{rec("Backend Developer")}))
		clock.Advance(2 * time.Hour)
		must(t, s.InsertAll(ctx, []model.Record{rec("Data Analyst")}))

		if latest := latestFetch(t, s); latest == nil || !latest.Equal(clock.Now()) {
			t.Errorf("MostRecentFetchTime = %v, want %s", latest, clock.Now())
		}
	})

	t.Run("insert empty batch is a no-op", func(t *testing.T) {
		s := newStore(t, newTestClock())
		must(t, s.InsertAll(ctx, nil))

		if hasData(t, s) {
			t.Error("HasAnyData = true after an empty insert")
		}
	})

	t.Run("wipe removes everything", func(t *testing.T) {
		s := newStore(t, newTestClock())
		must(t, s.InsertAll(ctx, []model.Record{rec("A Role"), rec("B Role"), rec("C Role")}))

		n, err := s.WipeAll(ctx)
		must(t, err)
		if n != 3 {
			t.Errorf("WipeAll removed %d, want 3", n)
		}
		if hasData(t, s) {
			t.Error("HasAnyData = true after wipe")
		}

		n, err = s.WipeAll(ctx)
		must(t, err)
		if n != 0 {
			t.Errorf("second WipeAll removed %d, want 0", n)
		}
	})

	t.Run("tiered ranking", func(t *testing.T) {
		s := newStore(t, newTestClock())
		must(t, s.InsertAll(ctx, []model.Record{
			rec("Engineer, Software"),
			rec("Senior Software Engineer"),
			rec("Software Engineer II"),
			rec("Accountant"),
		}))

		want := []string{"software engineer ii", "senior software engineer", "engineer software"}
		if got := titles(searchTitles(t, s, "software engineer")); !reflect.DeepEqual(got, want) {
			t.Errorf("SearchByTitle = %v, want %v", got, want)
		}
	})

	t.Run("fuzzy fallback", func(t *testing.T) {
		s := newStore(t, newTestClock())
		must(t, s.InsertAll(ctx, []model.Record{rec("Software Engineer"), rec("Accountant")}))

		want := []string{"software engineer"}
		if got := titles(searchTitles(t, s, "sofware enginer")); !reflect.DeepEqual(got, want) {
			t.Errorf("SearchByTitle = %v, want %v", got, want)
		}
	})

	t.Run("query of only stop words", func(t *testing.T) {
		s := newStore(t, newTestClock())
		must(t, s.InsertAll(ctx, []model.Record{rec("Software Engineer")}))

		if got := searchTitles(t, s, "the remote and"); len(got) != 0 {
			t.Errorf("SearchByTitle = %v, want empty", titles(got))
		}
	})

	t.Run("nullable fields round trip", func(t *testing.T) {
		s := newStore(t, newTestClock())
		in := model.Record{
			Title:       "Site Reliability Engineer",
			Description: "",
			Company:     nil,
			Location:    model.StringOrNil("Berlin"),
			URL:         model.StringOrNil("https://example.com/jobs/1"),
			DatePosted:  nil,
			IsRemote:    false,
			Source:      model.ProviderArbeitnow,
		}
		must(t, s.InsertAll(ctx, []model.Record{in}))

		got := searchTitles(t, s, "site reliability engineer")
		if len(got) != 1 {
			t.Fatalf("SearchByTitle = %v, want 1 record", titles(got))
		}

		r := got[0]
		if r.Company != nil || r.DatePosted != nil {
			t.Errorf("Company = %v, DatePosted = %v, want nil", r.Company, r.DatePosted)
		}
		if got := model.Deref(r.Location); got != "Berlin" {
			t.Errorf("Location = %q, want Berlin", got)
		}
		if got := model.Deref(r.URL); got != "https://example.com/jobs/1" {
			t.Errorf("URL = %q", got)
		}
		if r.Description != "" {
			t.Errorf("Description = %q, want empty", r.Description)
		}
		if r.IsRemote {
			t.Error("IsRemote = true, want false")
		}
		if r.Source != model.ProviderArbeitnow {
			t.Errorf("Source = %q, want %q", r.Source, model.ProviderArbeitnow)
		}
	})
}
