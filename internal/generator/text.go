package generator

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	minSentenceWords = 4
	maxSentenceWords = 12
)

// CatchPhrase returns a short product-style phrase such as
// "Auxiliary cohesive protocol".
func (g *Generator) CatchPhrase() string {
	phrase := g.faker.HackerAdjective() + " " + g.faker.BuzzWord() + " " + g.faker.HackerNoun()
	r, size := utf8.DecodeRuneInString(phrase)
	return string(unicode.ToUpper(r)) + phrase[size:]
}

// Text returns lorem sentences that fill at most maxChars characters.
// The result stays within one sentence of the limit.
func (g *Generator) Text(maxChars int) string {
	if maxChars <= 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(maxChars)
	for {
		sentence := g.sentence()
		need := len(sentence)
		if b.Len() > 0 {
			need++
		}
		if b.Len()+need > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
	}

	if b.Len() == 0 {
		// A single sentence did not fit; cut one down to size.
		s := g.sentence()
		if len(s) > maxChars {
			s = s[:maxChars]
		}
		return s
	}
	return b.String()
}

func (g *Generator) sentence() string {
	return g.faker.LoremIpsumSentence(g.faker.IntRange(minSentenceWords, maxSentenceWords))
}

// between draws a whole-second timestamp in [start, end].
func (g *Generator) between(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	return g.faker.DateRange(start, end).UTC().Truncate(time.Second)
}
