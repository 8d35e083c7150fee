// Package filter narrows ranked lookup results by location and remote flag.
package filter

import (
	"strings"

	"github.com/amishk599/jobcache/internal/model"
)

// LocationFilter keeps records whose location contains any of the location
// keywords (case-insensitive) and, when remoteOnly is set, only remote
// records. An empty keyword list matches every location.
type LocationFilter struct {
	locations  []string
	remoteOnly bool
}

// NewLocationFilter returns a filter for the given keywords.
func NewLocationFilter(locations []string, remoteOnly bool) *LocationFilter {
	var kws []string
	for _, l := range locations {
		if l = strings.TrimSpace(l); l != "" {
			kws = append(kws, strings.ToLower(l))
		}
	}
	return &LocationFilter{locations: kws, remoteOnly: remoteOnly}
}

// Active reports whether the filter can reject anything.
func (f *LocationFilter) Active() bool {
	return f.remoteOnly || len(f.locations) > 0
}

// Match reports whether r passes the filter. A record with no location never
// matches a non-empty keyword list.
func (f *LocationFilter) Match(r model.Record) bool {
	if f.remoteOnly && !r.IsRemote {
		return false
	}
	if len(f.locations) == 0 {
		return true
	}
	location := strings.ToLower(model.Deref(r.Location))
	for _, kw := range f.locations {
		if strings.Contains(location, kw) {
			return true
		}
	}
	return false
}

// Apply returns the matching records in their original order.
func (f *LocationFilter) Apply(records []model.Record) []model.Record {
	if !f.Active() {
		return records
	}
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
