// Package morph is a small dictionary-plus-suffix morphological analyzer for
// Russian. It only needs to tell verb-like words from everything else and
// bring them to the infinitive, so it trades coverage for zero runtime data.
package morph

import (
	_ "embed"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// POS is a part-of-speech tag. Names follow the OpenCorpora tag set.
type POS string

const (
	Verb            POS = "VERB" // finite verb
	Infinitive      POS = "INFN"
	ParticipleFull  POS = "PRTF"
	ParticipleShort POS = "PRTS"
	Gerund          POS = "GRND"
	Noun            POS = "NOUN"
	Adjective       POS = "ADJF"
	Numeral         POS = "NUMR"
	Particle        POS = "PRCL"
	Unknown         POS = "UNKN"
)

// Verbal reports whether p is one of the verb-like tags.
func (p POS) Verbal() bool {
	switch p {
	case Verb, Infinitive, ParticipleFull, ParticipleShort, Gerund:
		return true
	}
	return false
}

// Parse is the analysis of a single word.
type Parse struct {
	Word   string
	POS    POS
	Normal string // infinitive for verb-like words, the word itself otherwise
}

// minStem is the shortest stem a suffix rule may leave behind.
const minStem = 2

//go:embed lexicon.yaml
var defaultLexicon []byte

type lexiconFile struct {
	Verbs map[string][]string `yaml:"verbs"`
	Words map[POS][]string    `yaml:"words"`
}

// Analyzer looks words up in its lexicon first and falls back to suffix rules.
type Analyzer struct {
	lexicon map[string]Parse
	rules   []rule
}

// NewAnalyzer returns an analyzer backed by the bundled lexicon.
func NewAnalyzer() (*Analyzer, error) {
	return NewAnalyzerWithLexicon(defaultLexicon)
}

// NewAnalyzerWithLexicon parses a lexicon in the bundled YAML format.
func NewAnalyzerWithLexicon(data []byte) (*Analyzer, error) {
	var lf lexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	lex := make(map[string]Parse)
	for pos, words := range lf.Words {
		for _, w := range words {
			w = fold(w)
			lex[w] = Parse{Word: w, POS: pos, Normal: w}
		}
	}
	// Verbs win over plain words listed under the same form.
	for normal, forms := range lf.Verbs {
		normal = fold(normal)
		lex[normal] = Parse{Word: normal, POS: Infinitive, Normal: normal}
		for _, f := range forms {
			f = fold(f)
			lex[f] = Parse{Word: f, POS: Verb, Normal: normal}
		}
	}

	// Longest suffix first; equal lengths keep table order.
	rules := slices.Clone(suffixRules)
	slices.SortStableFunc(rules, func(a, b rule) int {
		return cmp.Compare(utf8.RuneCountInString(b.suffix), utf8.RuneCountInString(a.suffix))
	})

	return &Analyzer{lexicon: lex, rules: rules}, nil
}

// Parse analyzes a lowercase word with punctuation already removed.
func (a *Analyzer) Parse(word string) Parse {
	w := fold(word)
	if p, ok := a.lexicon[w]; ok {
		return p
	}
	for _, r := range a.rules {
		if !strings.HasSuffix(w, r.suffix) {
			continue
		}
		stem := strings.TrimSuffix(w, r.suffix)
		if !r.guard && utf8.RuneCountInString(stem) < minStem {
			continue
		}
		if r.keep {
			return Parse{Word: w, POS: r.pos, Normal: w}
		}
		return Parse{Word: w, POS: r.pos, Normal: stem + r.normal}
	}
	return Parse{Word: w, POS: Unknown, Normal: w}
}

// fold maps ё to е so dictionary lookups ignore the optional diaeresis.
func fold(s string) string {
	return strings.ReplaceAll(s, "ё", "е")
}
