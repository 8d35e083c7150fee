// Package intent pulls a job title out of a free-text chat message.
package intent

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const roleSuffix = `(?:jobs?|positions?|roles?|openings?|opportunities?)`

// requestWords mark a message as a request rather than a bare title.
var requestWords = regexp.MustCompile(`\b(?:find|looking|want|search|show|get|any|do you|can you)\b`)

// titlePatterns are tried in order, most specific first. Group 1 is the title.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`looking for (?:a |an |some )?(.+?)(?:\s+` + roleSuffix + `)?$`),
	regexp.MustCompile(`find(?:\s+me)?\s+(?:a |an |some )?(.+?)(?:\s+` + roleSuffix + `)?$`),
	regexp.MustCompile(`i (?:want|need)\s+(?:a |an |some )?(.+?)(?:\s+` + roleSuffix + `)?$`),
	regexp.MustCompile(`search(?:ing)? for\s+(?:a |an |some )?(.+?)(?:\s+` + roleSuffix + `)?$`),
	regexp.MustCompile(`(?:show|get)\s+me\s+(?:a |an |some )?(.+?)(?:\s+` + roleSuffix + `)?$`),
	regexp.MustCompile(`what\s+(.+?)\s+(?:are there|are available|do you have|jobs?|positions?|roles?)(?:\s+available)?`),
	regexp.MustCompile(`any\s+(.+?)\s+(?:available|jobs?|positions?|roles?|openings?)`),
	regexp.MustCompile(`do you have\s+(?:any\s+)?(.+?)(?:\s+` + roleSuffix + `)?$`),
	regexp.MustCompile(`can you find\s+(?:me\s+)?(?:any\s+)?(.+?)(?:\s+` + roleSuffix + `)?$`),
	regexp.MustCompile(`^(.+?)\s+` + roleSuffix + `$`),
	regexp.MustCompile(`(.*?(?:developer|engineer|programmer|architect|designer|analyst|scientist|manager|lead|devops|sre|admin|specialist|consultant).*?)(?:\s+` + roleSuffix + `)?$`),
}

var (
	fillerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:a|an|the|some|any)\b`),
		regexp.MustCompile(`\b` + roleSuffix + `\b`),
		regexp.MustCompile(`\b(?:available|there)\b`),
		regexp.MustCompile(`\b(?:please|thanks?|thank you)\b`),
	}
	punctuation = regexp.MustCompile(`[?!.,:;]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// ExtractTitle returns the job title found in message. ok is false when no
// usable title (at least two characters) remains after cleaning.
func ExtractTitle(message string) (title string, ok bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return "", false
	}

	if len(strings.Fields(msg)) <= 3 && !requestWords.MatchString(msg) {
		return validate(clean(msg))
	}

	for _, re := range titlePatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		if t := strings.TrimSpace(m[1]); t != "" {
			title = t
			break
		}
	}
	if title == "" {
		title = msg
	}
	return validate(clean(title))
}

func validate(title string) (string, bool) {
	if utf8.RuneCountInString(title) < 2 {
		return "", false
	}
	return title, true
}

// clean strips filler words and punctuation and collapses whitespace.
func clean(title string) string {
	for _, re := range fillerPatterns {
		title = re.ReplaceAllString(title, " ")
	}
	title = punctuation.ReplaceAllString(title, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(title, " "))
}
