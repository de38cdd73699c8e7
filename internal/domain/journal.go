package domain

import "context"

// ReplyJournal records replies after they were sent.
type ReplyJournal interface {
	Record(ctx context.Context, reply Reply) error
}
