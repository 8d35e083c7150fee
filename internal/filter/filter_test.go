package filter

import (
	"testing"

	"github.com/amishk599/jobcache/internal/model"
)

func rec(id int64, location string, remote bool) model.Record {
	return model.Record{ID: id, Title: "engineer", Location: model.StringOrNil(location), IsRemote: remote}
}

func TestLocationFilter_Match(t *testing.T) {
	tests := []struct {
		name       string
		locations  []string
		remoteOnly bool
		rec        model.Record
		wantMatch  bool
	}{
		{
			name:      "location keyword matches",
			locations: []string{"United States", "Europe"},
			rec:       rec(1, "Remote - United States", true),
			wantMatch: true,
		},
		{
			name:      "case insensitive",
			locations: []string{"germany"},
			rec:       rec(1, "Berlin, Germany", false),
			wantMatch: true,
		},
		{
			name:      "location miss",
			locations: []string{"canada"},
			rec:       rec(1, "Berlin, Germany", false),
			wantMatch: false,
		},
		{
			name:      "missing location never matches keywords",
			locations: []string{"germany"},
			rec:       rec(1, "", true),
			wantMatch: false,
		},
		{
			name:      "no keywords matches all",
			rec:       rec(1, "", false),
			wantMatch: true,
		},
		{
			name:       "remote only rejects on-site",
			remoteOnly: true,
			rec:        rec(1, "Berlin", false),
			wantMatch:  false,
		},
		{
			name:       "remote only with keyword",
			locations:  []string{"berlin"},
			remoteOnly: true,
			rec:        rec(1, "Berlin", true),
			wantMatch:  true,
		},
		{
			name:      "blank keywords ignored",
			locations: []string{"  ", ""},
			rec:       rec(1, "Anywhere", false),
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewLocationFilter(tt.locations, tt.remoteOnly)
			if got := f.Match(tt.rec); got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestLocationFilter_ApplyKeepsOrder(t *testing.T) {
	records := []model.Record{
		rec(3, "Berlin", true),
		rec(1, "Paris", true),
		rec(2, "Berlin", false),
		rec(4, "Berlin", true),
	}

	got := NewLocationFilter([]string{"berlin"}, true).Apply(records)

	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 4 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestLocationFilter_InactivePassesThrough(t *testing.T) {
	f := NewLocationFilter(nil, false)
	if f.Active() {
		t.Fatal("expected inactive filter")
	}
	records := []model.Record{rec(1, "", false)}
	if got := f.Apply(records); len(got) != 1 {
		t.Errorf("expected passthrough, got %d", len(got))
	}
}
