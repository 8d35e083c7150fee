// Package render formats lookup results as a chat-style reply.
package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/recommend"
)

// MaxListed is the most jobs shown in one reply.
const MaxListed = 5

const previewRunes = 150

// FormatNoTitle is the reply when no job title could be read from a message.
func FormatNoTitle() string {
	return "🤔 I couldn't identify a job title from your message.\n\n" +
		"Try something like:\n" +
		"• 'python developer'\n" +
		"• 'looking for backend engineer jobs'\n" +
		"• 'show me data analyst positions'\n"
}

// FormatNoJobs is the reply when a lookup returned nothing.
func FormatNoJobs(title string) string {
	return fmt.Sprintf("😕 No %s jobs found right now.\n\n"+
		"Try a broader title (e.g. 'developer' instead of 'senior golang developer') "+
		"or check back later; listings refresh daily.\n", capitalize(title))
}

// FormatJobs renders up to MaxListed jobs in rank order, followed by project
// suggestions for the top job when there are any.
func FormatJobs(title string, jobs []model.RecordView, projects []recommend.Project) string {
	if len(jobs) == 0 {
		return FormatNoJobs(title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Found %d %s %s", len(jobs), capitalize(title), plural(len(jobs), "job", "jobs"))
	if len(jobs) > MaxListed {
		fmt.Fprintf(&b, " (showing top %d)", MaxListed)
	}
	b.WriteString("\n\n")

	for i, j := range jobs {
		if i == MaxListed {
			break
		}
		fmt.Fprintf(&b, "%d. 💼 %s\n", i+1, capitalize(j.Title))
		if c := model.Deref(j.Company); c != "" {
			fmt.Fprintf(&b, "   🏢 %s\n", c)
		}
		location := model.Deref(j.Location)
		if location == "" {
			location = "Not specified"
		}
		if j.IsRemote {
			location += " (remote)"
		}
		fmt.Fprintf(&b, "   📍 %s\n", location)
		if d := model.Deref(j.DatePosted); d != "" {
			fmt.Fprintf(&b, "   📅 %s\n", d)
		}
		if p := preview(j.Description, previewRunes); p != "" {
			fmt.Fprintf(&b, "   %s\n", p)
		}
		if u := model.Deref(j.URL); u != "" {
			fmt.Fprintf(&b, "   🔗 %s\n", u)
		}
		b.WriteByte('\n')
	}

	if len(projects) > 0 {
		fmt.Fprintf(&b, "💡 Portfolio project ideas for \"%s\":\n\n", capitalize(jobs[0].Title))
		for i, p := range projects {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p.Title)
			if p.Description != "" {
				fmt.Fprintf(&b, "   %s\n", p.Description)
			}
			if len(p.Technologies) > 0 {
				fmt.Fprintf(&b, "   🛠 %s\n", strings.Join(p.Technologies, ", "))
			}
			if p.Timeline != "" {
				fmt.Fprintf(&b, "   ⏱ %s\n", p.Timeline)
			}
			if p.StandoutFactor != "" {
				fmt.Fprintf(&b, "   ⭐ %s\n", p.StandoutFactor)
			}
			b.WriteByte('\n')
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// preview cuts s at the last word boundary within n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// capitalize upper-cases the first letter of each word; stored titles are
// lowercase.
func capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
