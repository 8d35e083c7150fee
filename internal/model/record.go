package model

import (
	"context"
	"time"
)

// ProviderID tags an upstream job board. The gateway tries providers in the
// order of Priority.
type ProviderID string

const (
	ProviderRemotive  ProviderID = "remotive"
	ProviderRemoteOK  ProviderID = "remoteok"
	ProviderArbeitnow ProviderID = "arbeitnow"
	ProviderJobicy    ProviderID = "jobicy"
)

// Priority is the fixed provider order, highest first.
var Priority = []ProviderID{ProviderRemotive, ProviderRemoteOK, ProviderArbeitnow, ProviderJobicy}

// Known reports whether id names a supported provider.
func (id ProviderID) Known() bool {
	for _, p := range Priority {
		if p == id {
			return true
		}
	}
	return false
}

// Record is the normalized representation of a job posting from any provider.
type Record struct {
	ID          int64      // store-assigned, zero until persisted
	Title       string     // normalized by the store at insert time
	Description string     // plain text, may be empty
	Company     *string    // nullable
	Location    *string    // nullable
	URL         *string    // nullable
	DatePosted  *string    // opaque upstream string
	IsRemote    bool       // true when the provider omits it
	FetchedAt   time.Time  // our clock, set by the store
	Source      ProviderID // provider that produced the record
}

// RecordView is the externally visible shape of a Record.
type RecordView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Company     *string   `json:"company"`
	Location    *string   `json:"location"`
	URL         *string   `json:"url"`
	DatePosted  *string   `json:"datePosted"`
	IsRemote    bool      `json:"isRemote"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// View converts r to its external shape.
func (r Record) View() RecordView {
	return RecordView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Company:     r.Company,
		Location:    r.Location,
		URL:         r.URL,
		DatePosted:  r.DatePosted,
		IsRemote:    r.IsRemote,
		FetchedAt:   r.FetchedAt,
	}
}

// Views converts a ranked slice of records, preserving order.
func Views(records []Record) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, r.View())
	}
	return views
}

// StringOrNil returns nil for an empty string so that missing upstream
// fields are stored as NULL.
func StringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Provider fetches job postings from one upstream board and maps them into Records.
type Provider interface {
	ID() ProviderID
	FetchJobs(ctx context.Context) ([]Record, error)
}

// CacheStore is durable keyed storage of normalized job records.
type CacheStore interface {
	HasAnyData(ctx context.Context) (bool, error)
	// MostRecentFetchTime returns nil when the store is empty.
	MostRecentFetchTime(ctx context.Context) (*time.Time, error)
	// InsertAll persists the batch atomically, assigning ids and FetchedAt.
	InsertAll(ctx context.Context, records []Record) error
	// WipeAll deletes every record and reports how many were removed.
	WipeAll(ctx context.Context) (int64, error)
	// SearchByTitle returns records ranked for query. An unnormalizable
	// query yields an empty result, not an error.
	SearchByTitle(ctx context.Context, query string) ([]Record, error)
	Close() error
}
