package phrase

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPhrasebook_Default(t *testing.T) {
	book, err := LoadPhrasebook("", slog.Default())
	require.NoError(t, err)

	assert.NotEmpty(t, book.Templates)
	assert.NotEmpty(t, book.Presets)
	assert.Contains(t, book.StopWords, "быть")
}

func TestLoadPhrasebook_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates: ["Не {word}"]
stopWords: [быть]
presets:
  - trigger: Ку
    answers: [ку-ку]
`), 0o644))

	book, err := LoadPhrasebook(path, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"Не {word}"}, book.Templates)
	assert.Equal(t, []Preset{{Trigger: "Ку", Answers: []string{"ку-ку"}}}, book.Presets)
}

func TestLoadPhrasebook_MissingFile(t *testing.T) {
	_, err := LoadPhrasebook(filepath.Join(t.TempDir(), "nope.yaml"), slog.Default())
	assert.Error(t, err)
}

func TestParsePhrasebook_InvalidYAML(t *testing.T) {
	_, err := ParsePhrasebook([]byte("templates: {"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		book    Phrasebook
		wantErr string
	}{
		{"no templates", Phrasebook{}, "at least one template"},
		{"no slot", Phrasebook{Templates: []string{"hello"}}, "got 0"},
		{"two slots", Phrasebook{Templates: []string{"{word} {word}"}}, "got 2"},
		{"empty trigger", Phrasebook{
			Templates: []string{"{word}"},
			Presets:   []Preset{{Trigger: " ", Answers: []string{"x"}}},
		}, "empty trigger"},
		{"punctuation-only trigger", Phrasebook{
			Templates: []string{"{word}"},
			Presets:   []Preset{{Trigger: "?!", Answers: []string{"x"}}},
		}, "empty trigger"},
		{"no answers", Phrasebook{
			Templates: []string{"{word}"},
			Presets:   []Preset{{Trigger: "hi"}},
		}, "no answers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.book.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_OK(t *testing.T) {
	book := Phrasebook{
		Templates: []string{"Хватит {word}!"},
		Presets:   []Preset{{Trigger: "привет", Answers: []string{"Привет!"}}},
	}
	assert.NoError(t, book.Validate())
}
