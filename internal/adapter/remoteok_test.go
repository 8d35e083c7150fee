package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/jobcache/internal/model"
)

func TestRemoteOKFetchJobs_SkipsMetadata(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[
		{"last_updated": 1700000000, "legal": "API terms apply"},
		{
			"position": "Backend Developer",
			"company": "Globex",
			"description": "<div>Go &amp; Postgres<br>Remote</div>",
			"location": "Europe",
			"url": "https://remoteok.com/remote-jobs/1",
			"date": "2026-02-12T10:00:00+00:00"
		},
		{
			"position": "Office Manager",
			"company": "Initech",
			"description": "",
			"location": "",
			"url": "",
			"date": "",
			"remote": false
		}
	]`)

	a := NewRemoteOKAdapter(srv.URL, srv.Client())
	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs (metadata skipped), got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Backend Developer" {
		t.Errorf("Title = %q", j.Title)
	}
	if j.Description != "Go & Postgres Remote" {
		t.Errorf("Description = %q", j.Description)
	}
	if !j.IsRemote {
		t.Error("expected IsRemote to default to true")
	}
	if j.Source != model.ProviderRemoteOK {
		t.Errorf("Source = %s", j.Source)
	}

	if jobs[1].IsRemote {
		t.Error("expected explicit remote=false to be kept")
	}
	if jobs[1].URL != nil || jobs[1].Location != nil {
		t.Errorf("expected nil URL/Location, got %s/%s", deref(jobs[1].URL), deref(jobs[1].Location))
	}
}

func TestRemoteOKFetchJobs_OnlyMetadata(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[{"legal": "terms"}]`)

	jobs, err := NewRemoteOKAdapter(srv.URL, srv.Client()).FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestRemoteOKFetchJobs_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewRemoteOKAdapter(srv.URL, srv.Client()).FetchJobs(context.Background())
	var fetchErr *model.ProviderFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected ProviderFetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", fetchErr.StatusCode)
	}
	if fetchErr.RetryAfter != 120*time.Second {
		t.Errorf("RetryAfter = %v, want 2m0s", fetchErr.RetryAfter)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"30", 30 * time.Second},
		{"Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
