package domain

import "context"

// Transport is the messaging platform seen by the bot loop.
type Transport interface {
	// Poll long-polls for updates after offset. ok is false when the
	// request failed for any reason; the caller just polls again.
	Poll(ctx context.Context, offset int) (updates []Update, ok bool)
	Send(ctx context.Context, reply Reply) error
}
