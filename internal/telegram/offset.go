package telegram

import (
	"log/slog"

	"phrasebot/internal/domain"
)

// NextOffset returns the offset that acknowledges every update in the
// batch: the newest update id plus one. An empty batch leaves current as is.
func NextOffset(updates []domain.Update, current int, logger *slog.Logger) int {
	if len(updates) == 0 {
		logger.Warn("cannot advance offset: empty update batch", "offset", current)
		return current
	}
	return updates[len(updates)-1].UpdateID + 1
}
