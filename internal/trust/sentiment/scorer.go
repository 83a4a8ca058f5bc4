// Package sentiment scores free-text feedback with a fixed polarity lexicon.
//
// The scorer is deterministic and total: the same text always yields the same
// score, malformed or out-of-vocabulary input yields 0, and no external calls
// are involved. Scores are signed and bounded to [-100, 100].
package sentiment

import (
	"strings"
	"unicode"
)

// scale converts a raw lexicon sum into the signed percentage range.
const scale = 20

const (
	minScore = -100
	maxScore = 100
)

// Scorer computes signed sentiment scores over free text. The zero value is
// not usable; construct with New.
type Scorer struct {
	lexicon map[string]int
}

// New returns a scorer backed by the built-in polarity lexicon.
func New() *Scorer {
	return &Scorer{lexicon: polarity}
}

// Score tokenizes text, sums the polarity of known words, scales the sum by
// a fixed constant, and clamps the result to [-100, 100]. Unknown words
// contribute nothing; empty text scores 0.
func (s *Scorer) Score(text string) int {
	sum := 0
	for _, token := range tokenize(text) {
		sum += s.lexicon[token]
	}

	score := sum * scale
	if score > maxScore {
		return maxScore
	}
	if score < minScore {
		return minScore
	}
	return score
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
