// Package schedule keeps the per-chat message counters that decide when a
// chat is due for a generated phrase.
//
// Counters start at 1 for the first message seen in a chat, grow by one per
// message and are reset to 1 (never 0) after a phrase is posted. With an
// interval of N this leaves N-1 messages between two posts.
package schedule

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
)

// Schedule is owned by a single goroutine; it is not safe for concurrent use.
type Schedule struct {
	counters map[int64]int
}

func New() *Schedule {
	return &Schedule{counters: make(map[int64]int)}
}

// Count returns the counter of chatID and whether the chat has been seen.
func (s *Schedule) Count(chatID int64) (int, bool) {
	n, ok := s.counters[chatID]
	return n, ok
}

// Due reports whether a known chat has reached interval.
// It does not modify the schedule.
func (s *Schedule) Due(chatID int64, interval int) bool {
	n, ok := s.counters[chatID]
	return ok && n >= interval
}

// Advance counts one more message for chatID and returns the new counter.
// An unseen chat starts at 1.
func (s *Schedule) Advance(chatID int64) int {
	s.counters[chatID]++
	return s.counters[chatID]
}

// Reset puts the counter of chatID back to 1.
func (s *Schedule) Reset(chatID int64) {
	s.counters[chatID] = 1
}

func (s *Schedule) Len() int { return len(s.counters) }

// Snapshot returns a copy of all counters.
func (s *Schedule) Snapshot() map[int64]int {
	return maps.Clone(s.counters)
}

// LogValue renders the counters as a group keyed by chat id.
func (s *Schedule) LogValue() slog.Value {
	ids := slices.Sorted(maps.Keys(s.counters))
	attrs := make([]slog.Attr, 0, len(ids))
	for _, id := range ids {
		attrs = append(attrs, slog.Int(strconv.FormatInt(id, 10), s.counters[id]))
	}
	return slog.GroupValue(attrs...)
}
