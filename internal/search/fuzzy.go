package search

import (
	"sort"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/amishk599/jobcache/internal/model"
)

// FuzzyThreshold is the minimum partial-ratio score kept by the fallback pass.
const FuzzyThreshold = 70

type scored struct {
	rec    model.Record
	score  int
	length int
}

// Fuzzy scores every record against query and keeps those at or above
// threshold, best score first. Ties fall back to title length, title and id.
func Fuzzy(query string, records []model.Record, threshold int) []model.Record {
	query = Normalize(query)
	if query == "" {
		return nil
	}

	var rows []scored
	for _, rec := range records {
		score := fuzzy.PartialRatio(query, rec.Title)
		if score < threshold {
			continue
		}
		rows = append(rows, scored{rec: rec, score: score, length: utf8.RuneCountInString(rec.Title)})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.score != b.score {
			return a.score > b.score
		}
		return lessByTitle(a.length, b.length, a.rec, b.rec)
	})

	out := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.rec)
	}
	return out
}
