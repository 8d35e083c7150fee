package search

import "github.com/amishk599/jobcache/internal/model"

// FuzzyLabel marks a result that only the fuzzy fallback found.
const FuzzyLabel = "fuzzy"

// Explained is one ranked result together with the tier it matched on.
type Explained struct {
	Record model.Record
	Match  string // tier name, or FuzzyLabel
}

// Explain labels records with the tier each one matched for query. Records
// that fail the substring filter were found by the fuzzy fallback.
func Explain(query string, records []model.Record) []Explained {
	q := Normalize(query)
	out := make([]Explained, 0, len(records))
	for _, r := range records {
		label := FuzzyLabel
		if tier, ok := Classify(q, r.Title); ok {
			label = tier.String()
		}
		out = append(out, Explained{Record: r, Match: label})
	}
	return out
}
