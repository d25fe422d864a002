// Package language decides whether text should be spoken with the Khmer or
// the English voice.
//
// The primary decision is a script heuristic: runes in the Khmer Unicode
// block (U+1780–U+17FF) are counted against ASCII letters. When the
// statistical detector is enabled, whatlanggo refines the decision for
// whole-text classification; the heuristic remains the fallback for
// anything the detector cannot place.
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Tag classifies a span of text for voice selection.
type Tag string

const (
	// TagKhmer marks text that should be spoken with the Khmer voice.
	TagKhmer Tag = "khmer"

	// TagOther marks Latin-script text (English and related languages).
	TagOther Tag = "other"
)

// khmerSignificance is the minimum number of Khmer-block runes that makes
// ambiguous mixed text count as Khmer.
const khmerSignificance = 10

// Classifier tags text with the language it should be spoken in.
//
// The detector flag records whether the statistical refinement layer is in
// use. With the flag off the classifier is purely script-based, which keeps
// behavior predictable for hosts that don't want trigram detection.
type Classifier struct {
	detector bool
}

// NewClassifier creates a Classifier. useDetector enables the whatlanggo
// refinement layer; when false only the script heuristic is used.
func NewClassifier(useDetector bool) *Classifier {
	return &Classifier{detector: useDetector}
}

// Classify tags the dominant language of text. It never fails: empty input
// is TagOther, and any detector panic falls back to the script heuristic.
func (c *Classifier) Classify(text string) (tag Tag) {
	if strings.TrimSpace(text) == "" {
		return TagOther
	}
	if !c.detector {
		return classifyByScript(text)
	}

	defer func() {
		if r := recover(); r != nil {
			tag = classifyByScript(text)
		}
	}()

	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Khm:
		return TagKhmer
	case whatlanggo.Eng, whatlanggo.Spa, whatlanggo.Fra, whatlanggo.Deu, whatlanggo.Ita:
		return TagOther
	default:
		// The detector placed the text outside the supported set. Fall back
		// to the significance check so mixed text with real Khmer content
		// still gets the Khmer voice.
		if countKhmer(text) > khmerSignificance {
			return TagKhmer
		}
		return TagOther
	}
}

// classifyByScript compares Khmer-block runes against ASCII letters.
func classifyByScript(text string) Tag {
	khmer, latin := 0, 0
	for _, r := range text {
		switch {
		case isKhmerRune(r):
			khmer++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	if khmer > latin {
		return TagKhmer
	}
	return TagOther
}

// isKhmerRune reports whether r lies in the Khmer Unicode block.
func isKhmerRune(r rune) bool {
	return r >= 0x1780 && r <= 0x17FF
}

// countKhmer counts runes in the Khmer Unicode block.
func countKhmer(text string) int {
	n := 0
	for _, r := range text {
		if isKhmerRune(r) {
			n++
		}
	}
	return n
}

// ContainsKhmer reports whether text has at least one Khmer-block rune.
func ContainsKhmer(text string) bool {
	return countKhmer(text) > 0
}
