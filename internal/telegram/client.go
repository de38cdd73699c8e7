// Package telegram talks to the Telegram Bot API: long-polling getUpdates
// and replying with sendMessage.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"phrasebot/internal/domain"
)

// Client implements domain.Transport on top of tgbotapi.
type Client struct {
	bot         *tgbotapi.BotAPI
	pollTimeout time.Duration
	logger      *slog.Logger
}

type Config struct {
	Token       string
	APIEndpoint string        // tgbotapi format, "" for tgbotapi.APIEndpoint
	PollTimeout time.Duration // server-side wait of getUpdates
	Logger      *slog.Logger
}

// New connects to the Bot API and checks the token with getMe.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, newHTTPClient(cfg.PollTimeout))
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	cfg.Logger.Info("telegram bot connected",
		"username", bot.Self.UserName,
		"id", bot.Self.ID,
	)

	return &Client{bot: bot, pollTimeout: cfg.PollTimeout, logger: cfg.Logger}, nil
}

// Username returns the bot's @username as reported by getMe.
func (c *Client) Username() string { return c.bot.Self.UserName }

// Poll long-polls getUpdates. An offset of 0 asks for the oldest pending
// update. Any failure, including a malformed payload, is logged and reported
// as ok=false.
func (c *Client) Poll(ctx context.Context, offset int) ([]domain.Update, bool) {
	u := tgbotapi.NewUpdate(offset)
	u.Timeout = int(c.pollTimeout / time.Second)

	raw, err := callCtx(ctx, func() ([]tgbotapi.Update, error) {
		return c.bot.GetUpdates(u)
	})
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("telegram poll failed", "offset", offset, "err", err)
		}
		return nil, false
	}

	updates := make([]domain.Update, 0, len(raw))
	for _, r := range raw {
		updates = append(updates, convertUpdate(r))
	}
	return updates, true
}

// Send posts reply as a reply to its original message.
func (c *Client) Send(ctx context.Context, reply domain.Reply) error {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ReplyToMessageID = reply.ReplyTo

	_, err := callCtx(ctx, func() (tgbotapi.Message, error) {
		return c.bot.Send(msg)
	})
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", reply.ChatID, err)
	}
	return nil
}

func convertUpdate(u tgbotapi.Update) domain.Update {
	out := domain.Update{UpdateID: u.UpdateID}
	if m := u.Message; m != nil && m.Chat != nil {
		out.Message = &domain.Message{
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
			Text:      m.Text,
		}
	}
	return out
}

// callCtx runs a blocking Bot API call and returns early with ctx.Err()
// when ctx is cancelled. tgbotapi has no context support; an abandoned call
// finishes in the background and its result is dropped.
func callCtx[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}
