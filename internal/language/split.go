package language

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a maximal contiguous run of input text sharing one language tag.
// Spans are produced in input order and are immutable once returned.
type Span struct {
	Text string
	Lang Tag
}

// Split breaks text into same-language runs for separate synthesis calls.
//
// Tokens are words with their trailing whitespace attached. A token counts
// as Khmer if it contains any Khmer-block rune. A new span opens when the
// token's tag differs from the current run, or when appending the token
// would push the run past budget runes.
//
// If the scan yields a single run - no language switch anywhere - the
// per-token tagging is discarded and the whole text is tagged with Classify
// instead. This avoids spurious splits on short acronyms or stray
// punctuation, at the cost of swallowing a lone foreign borrowing.
func (c *Classifier) Split(text string, budget int) []Span {
	var spans []Span
	var current strings.Builder
	var currentLang Tag

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			spans = append(spans, Span{Text: t, Lang: currentLang})
		}
		current.Reset()
	}

	for _, token := range tokenize(text) {
		lang := TagOther
		if ContainsKhmer(token) {
			lang = TagKhmer
		}

		switched := currentLang != "" && lang != currentLang
		overflow := currentLang != "" && budget > 0 &&
			utf8.RuneCountInString(current.String())+utf8.RuneCountInString(token) > budget

		if switched || overflow {
			flush()
			currentLang = lang
		} else if currentLang == "" {
			currentLang = lang
		}
		current.WriteString(token)
	}
	flush()

	if len(spans) <= 1 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []Span{{Text: trimmed, Lang: c.Classify(text)}}
	}
	return spans
}

// tokenize splits text into words, each with its trailing whitespace kept,
// so spans can be rejoined without losing spacing. Leading whitespace
// before the first word is dropped.
func tokenize(text string) []string {
	var tokens []string
	runes := []rune(text)
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) {
		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		tokens = append(tokens, string(runes[start:i]))
	}
	return tokens
}
