// Package search implements title normalization and the tiered relevance
// ranking used by every cache store.
package search

import (
	"regexp"
	"strings"
)

// specialCharRegex matches runs of characters that are not letters, digits,
// underscores, hyphens or whitespace.
var specialCharRegex = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s-]+`)

var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "in": {},
	"at": {}, "for": {}, "with": {}, "remote": {}, "hybrid": {},
}

// Normalize lowercases s, replaces special characters with spaces, drops stop
// words and collapses whitespace. Stored titles and incoming queries go
// through the same function, and Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	cleaned := specialCharRegex.ReplaceAllString(strings.ToLower(s), " ")
	fields := strings.Fields(cleaned)
	kept := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// Terms splits a normalized query into its search terms.
func Terms(normalized string) []string {
	return strings.Fields(normalized)
}
