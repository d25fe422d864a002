package segment

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_FitsInOne(t *testing.T) {
	assert.Equal(t, []string{"Hello world."}, Chunk("Hello world.", 100))
	assert.Equal(t, []string{"Hello"}, Chunk("  Hello  ", 100))
}

func TestChunk_EmptyInput(t *testing.T) {
	assert.Nil(t, Chunk("", 100))
	assert.Nil(t, Chunk("   \t\n  ", 100))
}

func TestChunk_SentenceBoundaries(t *testing.T) {
	chunks := Chunk("A. B. C.", 5)
	assert.Equal(t, []string{"A. B.", "C."}, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 5)
	}
}

func TestChunk_GreedyAccumulation(t *testing.T) {
	chunks := Chunk("One. Two. Three.", 8)
	assert.Equal(t, []string{"One.", "Two.", "Three."}, chunks)

	chunks = Chunk("One. Two. Three.", 10)
	assert.Equal(t, []string{"One. Two.", "Three."}, chunks)
}

func TestChunk_ClauseFallback(t *testing.T) {
	chunks := Chunk("aaaa, bbbb, cccc", 10)
	require.Equal(t, []string{"aaaa,", "bbbb, cccc"}, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
	}
}

func TestChunk_OversizedWithoutDelimiters(t *testing.T) {
	long := strings.Repeat("x", 20)
	assert.Equal(t, []string{long}, Chunk(long, 5), "no delimiters: emitted oversized, never truncated")
}

func TestChunk_OversizedSentenceFallsToClauses(t *testing.T) {
	// One long sentence with clause breaks but no terminal until the end.
	text := strings.Repeat("word word word, ", 4) + "end."
	maxSize := 20
	chunks := Chunk(text, maxSize)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), maxSize)
	}
}

func TestChunk_EndsOnDelimiter(t *testing.T) {
	chunks := Chunk("Hi there.", 4)
	assert.Equal(t, []string{"Hi there."}, chunks, "single sentence longer than max with no clause break")
}

func TestChunk_DelimiterOnlyText(t *testing.T) {
	assert.Equal(t, []string{"..."}, Chunk("...", 1))
	assert.Equal(t, []string{"?!"}, Chunk("?!", 1))
}

func TestChunk_RuneCountedLengths(t *testing.T) {
	// Khmer runes are 3 bytes each in UTF-8; the bound is on runes.
	text := "សួស្ដីអ្នកសុខសប្បាយទេ"
	n := utf8.RuneCountInString(text)
	assert.Equal(t, []string{text}, Chunk(text, n))
}

func TestChunk_Idempotence(t *testing.T) {
	first := Chunk("One. Two. Three. Four. Five.", 12)[0]
	assert.Equal(t, []string{first}, Chunk(first, 12))
}

func TestChunk_OrderPreservation(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
	}{
		{"sentences", "One. Two. Three. Four.", 8},
		{"clauses", "aaaa, bbbb, cccc, dddd", 10},
		{"mixed", "First sentence here. Second one, with a clause. Third!", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(tt.text, tt.maxSize)
			require.NotEmpty(t, chunks)
			assert.Equal(t, tt.text, strings.Join(chunks, " "))
		})
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := "Some text. With several sentences, and clauses; to split."
	assert.Equal(t, Chunk(text, 15), Chunk(text, 15))
}
