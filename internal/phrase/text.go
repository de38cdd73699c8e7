package phrase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Punctuation is the set of characters stripped from message text before
// matching triggers or analyzing words.
const Punctuation = `.,?!:;)(\«»/#"'`

var punctuationStripper = strings.NewReplacer(stripPairs(Punctuation)...)

// StripPunctuation removes every Punctuation character from s.
func StripPunctuation(s string) string {
	return punctuationStripper.Replace(s)
}

func stripPairs(chars string) []string {
	pairs := make([]string, 0, 2*len(chars))
	for _, r := range chars {
		pairs = append(pairs, string(r), "")
	}
	return pairs
}

// Lower lowercases s with Russian casing rules.
func Lower(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Russian).String(s)
}

// Tokenize lowercases a message and splits it on whitespace. Punctuation is
// kept; callers strip it where they need to.
func Tokenize(text string) []string {
	return strings.Fields(Lower(text))
}

// TriggerKey normalizes a trigger phrase the way message text is normalized
// before matching: lowercased, punctuation removed, whitespace collapsed.
func TriggerKey(s string) string {
	return StripPunctuation(strings.Join(Tokenize(s), " "))
}
