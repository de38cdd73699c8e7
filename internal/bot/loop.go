// Package bot runs the poll → dispatch → send loop.
package bot

import (
	"context"
	"log/slog"
	"time"

	"phrasebot/internal/domain"
	"phrasebot/internal/schedule"
	"phrasebot/internal/telegram"
)

const (
	defaultInitialSyncDelay = 2 * time.Second
	defaultRetryDelay       = 1 * time.Second
	defaultSendDelay        = 1 * time.Second
)

// Decider picks the reply for a polled batch, updating sched as needed.
type Decider interface {
	Decide(updates []domain.Update, sched *schedule.Schedule) *domain.Reply
}

// LoopConfig holds the dependencies and timings of the bot loop.
type LoopConfig struct {
	Transport domain.Transport
	Decider   Decider
	Journal   domain.ReplyJournal // optional
	Logger    *slog.Logger

	// SkipBacklog drops the first non-empty batch seen after startup so
	// messages sent while the bot was down get no answer.
	SkipBacklog      bool
	InitialSyncDelay time.Duration // pause before each initial sync poll
	RetryDelay       time.Duration // pause after a failed poll
	SendDelay        time.Duration // pause after each send attempt
}

// Loop is single-threaded: it owns the schedule and the poll offset.
type Loop struct {
	transport domain.Transport
	decider   Decider
	journal   domain.ReplyJournal
	logger    *slog.Logger

	skipBacklog      bool
	initialSyncDelay time.Duration
	retryDelay       time.Duration
	sendDelay        time.Duration

	schedule *schedule.Schedule
	offset   int
}

func NewLoop(cfg LoopConfig) *Loop {
	if cfg.InitialSyncDelay <= 0 {
		cfg.InitialSyncDelay = defaultInitialSyncDelay
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.SendDelay <= 0 {
		cfg.SendDelay = defaultSendDelay
	}
	return &Loop{
		transport:        cfg.Transport,
		decider:          cfg.Decider,
		journal:          cfg.Journal,
		logger:           cfg.Logger,
		skipBacklog:      cfg.SkipBacklog,
		initialSyncDelay: cfg.InitialSyncDelay,
		retryDelay:       cfg.RetryDelay,
		sendDelay:        cfg.SendDelay,
		schedule:         schedule.New(),
	}
}

// Run polls until ctx is cancelled. Poll and send failures never stop the
// loop; cancellation is the only way out and returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if l.skipBacklog {
		if !l.initialSync(ctx) {
			l.logger.Info("bot loop stopping")
			return nil
		}
	}

	l.logger.Info("bot loop started", "offset", l.offset)
	for {
		if ctx.Err() != nil {
			l.logger.Info("bot loop stopping")
			return nil
		}

		updates, ok := l.transport.Poll(ctx, l.offset)
		if !ok {
			sleep(ctx, l.retryDelay)
			continue
		}
		if len(updates) == 0 {
			continue
		}

		l.offset = telegram.NextOffset(updates, l.offset, l.logger)

		reply := l.decider.Decide(updates, l.schedule)
		if reply == nil {
			continue
		}

		l.send(ctx, reply)
		sleep(ctx, l.sendDelay)
	}
}

// initialSync waits for the first non-empty batch and moves the offset past
// it. It returns false when ctx was cancelled first.
func (l *Loop) initialSync(ctx context.Context) bool {
	l.logger.Info("waiting for first updates to skip backlog")
	for {
		if !sleep(ctx, l.initialSyncDelay) {
			return false
		}
		updates, ok := l.transport.Poll(ctx, 0)
		if !ok || len(updates) == 0 {
			continue
		}
		l.offset = telegram.NextOffset(updates, l.offset, l.logger)
		l.logger.Info("skipped backlog", "updates", len(updates), "offset", l.offset)
		return true
	}
}

func (l *Loop) send(ctx context.Context, reply *domain.Reply) {
	if err := l.transport.Send(ctx, *reply); err != nil {
		if ctx.Err() == nil {
			l.logger.Error("cannot send reply", "chat_id", reply.ChatID, "kind", reply.Kind, "err", err)
		}
		return
	}
	l.logger.Info("reply sent",
		"chat_id", reply.ChatID,
		"reply_to", reply.ReplyTo,
		"kind", reply.Kind,
	)

	if l.journal == nil {
		return
	}
	if err := l.journal.Record(ctx, *reply); err != nil {
		l.logger.Warn("cannot journal reply", "chat_id", reply.ChatID, "err", err)
	}
}

// sleep pauses for d and reports false if ctx was cancelled meanwhile.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
