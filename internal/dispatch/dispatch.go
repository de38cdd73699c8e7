// Package dispatch decides, for the newest update of a poll, whether the bot
// answers a trigger phrase, posts a scheduled phrase, or stays silent.
package dispatch

import (
	"log/slog"
	"math/rand/v2"
	"strings"

	"phrasebot/internal/domain"
	"phrasebot/internal/phrase"
	"phrasebot/internal/schedule"
)

// PhraseGenerator produces a scheduled phrase from message tokens.
type PhraseGenerator interface {
	Generate(tokens []string) (string, bool)
}

type Config struct {
	Interval  int
	Presets   []phrase.Preset
	Generator PhraseGenerator
	Rand      *rand.Rand
	Logger    *slog.Logger
}

type trigger struct {
	key     string // phrase.TriggerKey of the preset trigger
	answers []string
}

// Dispatcher holds the read-only inputs of the decision. The schedule is
// passed to Decide by its owner.
type Dispatcher struct {
	interval int
	triggers []trigger
	gen      PhraseGenerator
	rng      *rand.Rand
	logger   *slog.Logger
}

func New(cfg Config) *Dispatcher {
	triggers := make([]trigger, 0, len(cfg.Presets))
	for _, p := range cfg.Presets {
		triggers = append(triggers, trigger{key: phrase.TriggerKey(p.Trigger), answers: p.Answers})
	}
	return &Dispatcher{
		interval: cfg.Interval,
		triggers: triggers,
		gen:      cfg.Generator,
		rng:      cfg.Rand,
		logger:   cfg.Logger,
	}
}

// Decide looks at the newest update only and returns the reply to send, or
// nil. Trigger replies leave sched untouched. A due chat's counter is reset
// only when a phrase was actually generated, so a chat whose message had no
// usable verb stays due for the next one.
func (d *Dispatcher) Decide(updates []domain.Update, sched *schedule.Schedule) *domain.Reply {
	if len(updates) == 0 {
		return nil
	}
	msg := updates[len(updates)-1].Message
	if msg == nil || msg.Text == "" {
		return nil
	}

	tokens := phrase.Tokenize(msg.Text)

	if answer, ok := d.matchTrigger(tokens); ok {
		d.logger.Info("trigger phrase matched", "chat_id", msg.ChatID, "message_id", msg.MessageID)
		return &domain.Reply{
			ChatID:  msg.ChatID,
			Text:    answer,
			ReplyTo: msg.MessageID,
			Kind:    domain.ReplyTrigger,
		}
	}

	if !sched.Due(msg.ChatID, d.interval) {
		n := sched.Advance(msg.ChatID)
		d.logger.Debug("message counted", "chat_id", msg.ChatID, "count", n, "schedule", sched)
		return nil
	}

	text, ok := d.gen.Generate(tokens)
	if !ok {
		d.logger.Debug("chat due but no candidate word", "chat_id", msg.ChatID, "schedule", sched)
		return nil
	}
	sched.Reset(msg.ChatID)
	d.logger.Debug("scheduled phrase generated", "chat_id", msg.ChatID, "schedule", sched)

	return &domain.Reply{
		ChatID:  msg.ChatID,
		Text:    text,
		ReplyTo: msg.MessageID,
		Kind:    domain.ReplyScheduled,
	}
}

// matchTrigger returns a random answer of the first preset whose trigger
// occurs in the text. Both sides are compared without punctuation.
func (d *Dispatcher) matchTrigger(tokens []string) (string, bool) {
	text := phrase.StripPunctuation(strings.Join(tokens, " "))
	for _, t := range d.triggers {
		if strings.Contains(text, t.key) {
			return t.answers[d.rng.IntN(len(t.answers))], true
		}
	}
	return "", false
}
