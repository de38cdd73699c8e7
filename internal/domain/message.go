package domain

// Update is a single event returned by the long poll.
type Update struct {
	UpdateID int
	Message  *Message // nil for edits, callbacks and other non-message events
}

// Message is the part of an inbound chat message the bot cares about.
type Message struct {
	ChatID    int64
	MessageID int
	Text      string // empty for stickers, photos and other non-text messages
}

// ReplyKind tells which dispatch path produced a reply.
type ReplyKind string

const (
	ReplyTrigger   ReplyKind = "trigger"
	ReplyScheduled ReplyKind = "scheduled"
)

// Reply is an outbound message addressed to the chat it answers.
type Reply struct {
	ChatID  int64
	Text    string
	ReplyTo int
	Kind    ReplyKind
}
