package phrase

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrasebot/internal/morph"
)

func newTestGenerator(t *testing.T, book *Phrasebook, seed uint64) *Generator {
	t.Helper()
	a, err := morph.NewAnalyzer()
	require.NoError(t, err)
	return NewGenerator(book, a, rand.New(rand.NewPCG(seed, seed)))
}

func TestCandidates_FiltersByPartOfSpeech(t *testing.T) {
	g := newTestGenerator(t, &Phrasebook{Templates: []string{"{word}"}}, 1)

	got := g.Candidates(strings.Fields("я хочу сказать привет"))
	assert.Equal(t, []string{"хотеть", "сказать"}, got)
}

func TestCandidates_NounsAndImperatives(t *testing.T) {
	g := newTestGenerator(t, &Phrasebook{Templates: []string{"{word}"}}, 1)

	got := g.Candidates(Tokenize("Идите в отдел, там крокодил! Память подводит"))
	assert.Equal(t, []string{"идти", "подводить"}, got)
}

func TestCandidates_StripsPunctuationAndSkipsShortTokens(t *testing.T) {
	g := newTestGenerator(t, &Phrasebook{Templates: []string{"{word}"}}, 1)

	got := g.Candidates([]string{"«говорил»,", "ел", "!!"})
	assert.Equal(t, []string{"говорить"}, got)
}

func TestCandidates_StopList(t *testing.T) {
	book := &Phrasebook{Templates: []string{"{word}"}, StopWords: []string{"Хотеть"}}
	g := newTestGenerator(t, book, 1)

	got := g.Candidates(strings.Fields("я хочу сказать привет"))
	assert.Equal(t, []string{"сказать"}, got)
}

func TestGenerate_OneWordInOneTemplate(t *testing.T) {
	templates := []string{"Хватит {word}!", "А может, лучше не {word}?"}
	book := &Phrasebook{Templates: templates}
	tokens := strings.Fields("я хочу сказать привет")

	want := map[string]bool{}
	for _, tmpl := range templates {
		for _, w := range []string{"хотеть", "сказать"} {
			want[strings.Replace(tmpl, Slot, w, 1)] = true
		}
	}

	for seed := range uint64(20) {
		g := newTestGenerator(t, book, seed)
		got, ok := g.Generate(tokens)
		require.True(t, ok)
		assert.True(t, want[got], "unexpected phrase %q", got)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	g := newTestGenerator(t, &Phrasebook{Templates: []string{"{word}"}}, 1)

	got, ok := g.Generate(strings.Fields("привет кот и пёс"))
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestGenerate_SameSeedSamePhrases(t *testing.T) {
	book := &Phrasebook{Templates: []string{"a {word}", "b {word}", "c {word}"}}
	tokens := strings.Fields("он говорил что хочет играть и петь")

	g1 := newTestGenerator(t, book, 7)
	g2 := newTestGenerator(t, book, 7)
	for range 10 {
		p1, _ := g1.Generate(tokens)
		p2, _ := g2.Generate(tokens)
		assert.Equal(t, p1, p2)
	}
}
