package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/amishk599/jobcache/internal/model"
)

// Tier is a ranking bucket; a higher tier is a better match.
type Tier int

const (
	TierLoose    Tier = iota // every term present, none of the stronger conditions
	TierOrdered              // terms appear in query order, not contiguous
	TierContains             // query is a contiguous substring
	TierPrefix               // title starts with the query
	TierExact                // title equals the query
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierContains:
		return "contains"
	case TierOrdered:
		return "ordered"
	default:
		return "loose"
	}
}

// MatchesAll is the base filter: every term must be a substring of title.
func MatchesAll(title string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(title, t) {
			return false
		}
	}
	return true
}

// inOrder reports whether terms occur in title left to right, equivalent to
// the pattern %t1%t2%...%.
func inOrder(title string, terms []string) bool {
	pos := 0
	for _, t := range terms {
		i := strings.Index(title[pos:], t)
		if i < 0 {
			return false
		}
		pos += i + len(t)
	}
	return true
}

// Classify returns the tier of a normalized title for a normalized query.
// ok is false when the title fails the base filter.
func Classify(query, title string) (tier Tier, ok bool) {
	terms := Terms(query)
	if len(terms) == 0 || !MatchesAll(title, terms) {
		return TierLoose, false
	}
	switch {
	case title == query:
		return TierExact, true
	case strings.HasPrefix(title, query):
		return TierPrefix, true
	case strings.Contains(title, query):
		return TierContains, true
	case inOrder(title, terms):
		return TierOrdered, true
	default:
		return TierLoose, true
	}
}

type ranked struct {
	rec    model.Record
	tier   Tier
	length int
}

// Rank filters candidates with the base filter and orders the survivors by
// tier desc, title length asc, title asc, id asc.
func Rank(query string, candidates []model.Record) []model.Record {
	query = Normalize(query)
	if query == "" {
		return nil
	}

	var rows []ranked
	for _, rec := range candidates {
		tier, ok := Classify(query, rec.Title)
		if !ok {
			continue
		}
		rows = append(rows, ranked{rec: rec, tier: tier, length: utf8.RuneCountInString(rec.Title)})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.tier != b.tier {
			return a.tier > b.tier
		}
		return lessByTitle(a.length, b.length, a.rec, b.rec)
	})

	out := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.rec)
	}
	return out
}

func lessByTitle(lenA, lenB int, a, b model.Record) bool {
	if lenA != lenB {
		return lenA < lenB
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}

// Match runs the full lookup algorithm: tiered ranking over candidates
// (rows a store has already narrowed with the base filter, or all rows), and
// when that yields nothing, a fuzzy pass over every stored record.
func Match(query string, candidates []model.Record, loadAll func() ([]model.Record, error)) ([]model.Record, error) {
	query = Normalize(query)
	if query == "" {
		return nil, nil
	}
	if results := Rank(query, candidates); len(results) > 0 {
		return results, nil
	}
	all, err := loadAll()
	if err != nil {
		return nil, err
	}
	return Fuzzy(query, all, FuzzyThreshold), nil
}
