package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunk splits text into pieces of at most maxSize runes, preferring
// sentence boundaries and falling back to clause boundaries.
//
// Sentences are accumulated greedily left to right; when the next sentence
// would overflow the current chunk, the chunk is closed and the sentence
// starts a new one. A chunk still too large after the sentence pass is
// re-split the same way on clause separators. A single sentence or clause
// with no further separators is emitted oversized rather than truncated.
//
// Lengths are counted in runes, not bytes: the synthesis limit is a
// character limit and Khmer runes are three bytes each in UTF-8.
//
// Empty and whitespace-only input yield a nil slice. The output never
// contains an empty chunk, and its order follows the input. maxSize must be
// positive; callers validate it at construction time.
func Chunk(text string, maxSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= maxSize {
		return []string{text}
	}

	sentences := splitAfter(text, isSentenceEnd)
	var chunks []string
	for _, c := range packSentences(sentences, maxSize) {
		if utf8.RuneCountInString(c) <= maxSize {
			chunks = append(chunks, c)
			continue
		}
		clauses := splitAfter(c, isClauseEnd)
		chunks = append(chunks, packClauses(clauses, maxSize)...)
	}
	return chunks
}

func isSentenceEnd(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isClauseEnd(r rune) bool { return r == ',' || r == ';' }

// splitAfter cuts text after every run of delimiter runes, keeping the
// delimiters and any following whitespace on the left segment. Scanning
// delimiter positions directly keeps the edge cases obvious: text ending
// exactly on a delimiter produces no empty tail, and delimiter-only text
// comes back as a single segment.
func splitAfter(text string, isDelim func(rune) bool) []string {
	runes := []rune(text)
	var segs []string
	start, i := 0, 0
	for i < len(runes) {
		if !isDelim(runes[i]) {
			i++
			continue
		}
		for i < len(runes) && isDelim(runes[i]) {
			i++
		}
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		segs = append(segs, string(runes[start:i]))
		start = i
	}
	if start < len(runes) {
		segs = append(segs, string(runes[start:]))
	}
	return segs
}

// packSentences greedily accumulates trimmed sentences into chunks joined
// by a single space.
func packSentences(sentences []string, maxSize int) []string {
	var chunks []string
	current := ""
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if current == "" {
			current = s
			continue
		}
		joined := current + " " + s
		if utf8.RuneCountInString(joined) > maxSize {
			chunks = append(chunks, current)
			current = s
		} else {
			current = joined
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// packClauses accumulates clause segments by direct concatenation - each
// segment already carries its separator and trailing space.
func packClauses(clauses []string, maxSize int) []string {
	var chunks []string
	current := ""
	flush := func() {
		if c := strings.TrimSpace(current); c != "" {
			chunks = append(chunks, c)
		}
	}
	for _, part := range clauses {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if current != "" && utf8.RuneCountInString(current+part) > maxSize {
			flush()
			current = part
		} else {
			current += part
		}
	}
	flush()
	return chunks
}
