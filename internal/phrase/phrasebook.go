package phrase

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Slot is the placeholder replaced by the chosen word in a template.
const Slot = "{word}"

//go:embed phrasebook.yaml
var defaultPhrasebook []byte

// Preset is a trigger phrase and the canned answers it can get.
type Preset struct {
	Trigger string   `yaml:"trigger"`
	Answers []string `yaml:"answers"`
}

// Phrasebook holds the static phrase data of the bot. It is read-only once
// loaded.
type Phrasebook struct {
	Templates []string `yaml:"templates"`
	StopWords []string `yaml:"stopWords"`
	Presets   []Preset `yaml:"presets"`
}

// LoadPhrasebook reads a phrasebook from path, or the bundled default when
// path is empty.
func LoadPhrasebook(path string, logger *slog.Logger) (*Phrasebook, error) {
	if path == "" {
		logger.Debug("using bundled phrasebook")
		return ParsePhrasebook(defaultPhrasebook)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrasebook: %w", err)
	}
	book, err := ParsePhrasebook(data)
	if err != nil {
		return nil, fmt.Errorf("phrasebook %s: %w", path, err)
	}
	logger.Info("loaded phrasebook", "path", path,
		"templates", len(book.Templates),
		"stop_words", len(book.StopWords),
		"presets", len(book.Presets),
	)
	return book, nil
}

// ParsePhrasebook decodes and validates a YAML phrasebook.
func ParsePhrasebook(data []byte) (*Phrasebook, error) {
	var book Phrasebook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return &book, nil
}

// Validate checks that every template has exactly one slot and every
// preset has a trigger with words left after punctuation is stripped, and
// at least one answer.
func (b *Phrasebook) Validate() error {
	var errs []error
	if len(b.Templates) == 0 {
		errs = append(errs, errors.New("templates: at least one template is required"))
	}
	for i, tmpl := range b.Templates {
		if n := strings.Count(tmpl, Slot); n != 1 {
			errs = append(errs, fmt.Errorf("templates[%d]: want exactly one %s slot, got %d", i, Slot, n))
		}
	}
	for i, p := range b.Presets {
		if strings.TrimSpace(TriggerKey(p.Trigger)) == "" {
			errs = append(errs, fmt.Errorf("presets[%d]: empty trigger", i))
		}
		if len(p.Answers) == 0 {
			errs = append(errs, fmt.Errorf("presets[%d] %q: no answers", i, p.Trigger))
		}
	}
	return errors.Join(errs...)
}
