// Package segment prepares user text for speech synthesis: it normalizes
// text into a speakable form and splits it into bounded-size chunks that
// fit a single synthesis call.
//
// Everything here is a pure transform over strings. No function in this
// package does I/O, keeps state, or returns an error.
package segment

import (
	"regexp"
	"strings"

	"github.com/Chomroeurn/khspeech/internal/language"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	urlPattern    = regexp.MustCompile(`https?://\S+`)
	wwwPattern    = regexp.MustCompile(`www\.\S+`)
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	clockPattern  = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

	ellipsisRun = regexp.MustCompile(`\.{3,}`)
	bangRun     = regexp.MustCompile(`!{2,}`)
	questionRun = regexp.MustCompile(`\?{2,}`)

	// Terminal runs are matched as a unit so an ellipsis stays "..." instead
	// of being spaced into ". . .".
	terminalSpacing = regexp.MustCompile(`([.!?]+)\s*`)
	clauseSpacing   = regexp.MustCompile(`([,;:])\s*`)
)

// abbreviations maps written abbreviations to their spoken form. Matches are
// whole-word and case-sensitive as listed.
var abbreviations = []struct {
	pattern *regexp.Regexp
	spoken  string
}{
	{regexp.MustCompile(`\bDr\.`), "Doctor"},
	{regexp.MustCompile(`\bMr\.`), "Mister"},
	{regexp.MustCompile(`\bMrs\.`), "Missus"},
	{regexp.MustCompile(`\bMs\.`), "Miss"},
	{regexp.MustCompile(`\betc\.`), "etcetera"},
	{regexp.MustCompile(`\bi\.e\.`), "that is"},
	{regexp.MustCompile(`\be\.g\.`), "for example"},
	{regexp.MustCompile(`\bvs\.`), "versus"},
}

// Normalize rewrites text so it sounds natural when spoken aloud.
//
// For all languages: whitespace runs collapse to one space, URLs and email
// addresses become speakable phrases, punctuation runs are reduced, and
// sentence/clause punctuation is followed by exactly one space. Abbreviation
// expansion and the clock-time rewrite apply to Latin-script text only.
func Normalize(text string, lang language.Tag) string {
	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")

	if lang == language.TagOther {
		for _, a := range abbreviations {
			text = a.pattern.ReplaceAllString(text, a.spoken)
		}
		// "3:30" reads better as "3 30" than "3 colon 30".
		text = clockPattern.ReplaceAllString(text, "$1 $2")
	}

	text = urlPattern.ReplaceAllString(text, "web link")
	text = wwwPattern.ReplaceAllString(text, "website")
	text = emailPattern.ReplaceAllString(text, "email address")

	text = ellipsisRun.ReplaceAllString(text, "...")
	text = bangRun.ReplaceAllString(text, "!")
	text = questionRun.ReplaceAllString(text, "?")

	text = terminalSpacing.ReplaceAllString(text, "$1 ")
	text = clauseSpacing.ReplaceAllString(text, "$1 ")

	return strings.TrimSpace(text)
}
