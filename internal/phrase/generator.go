// Package phrase builds the bot's outgoing phrases: canned trigger answers
// come from the phrasebook, scheduled phrases are generated from the verbs
// found in the incoming message.
package phrase

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"phrasebot/internal/morph"
)

// minTokenLen is the shortest token, in runes, considered as a candidate.
const minTokenLen = 3

// Generator turns message tokens into a templated phrase.
type Generator struct {
	templates []string
	stop      map[string]struct{}
	analyzer  *morph.Analyzer
	rng       *rand.Rand
}

func NewGenerator(book *Phrasebook, analyzer *morph.Analyzer, rng *rand.Rand) *Generator {
	stop := make(map[string]struct{}, len(book.StopWords))
	for _, w := range book.StopWords {
		stop[Lower(w)] = struct{}{}
	}
	return &Generator{
		templates: book.Templates,
		stop:      stop,
		analyzer:  analyzer,
		rng:       rng,
	}
}

// Candidates returns the normal forms of the verb-like tokens, in order,
// minus stop words. Duplicates are kept so frequent words weigh more.
func (g *Generator) Candidates(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		p := g.analyzer.Parse(StripPunctuation(tok))
		if !p.POS.Verbal() {
			continue
		}
		if _, stopped := g.stop[p.Normal]; stopped {
			continue
		}
		out = append(out, p.Normal)
	}
	return out
}

// Generate picks a random candidate and a random template. ok is false when
// no token qualifies.
func (g *Generator) Generate(tokens []string) (phrase string, ok bool) {
	words := g.Candidates(tokens)
	if len(words) == 0 {
		return "", false
	}
	word := words[g.rng.IntN(len(words))]
	tmpl := g.templates[g.rng.IntN(len(g.templates))]
	return strings.Replace(tmpl, Slot, word, 1), true
}
