package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phrasebot/internal/domain"
)

func TestNextOffset(t *testing.T) {
	updates := []domain.Update{{UpdateID: 40}, {UpdateID: 42}}
	assert.Equal(t, 43, NextOffset(updates, 10, discardLogger()))
}

func TestNextOffset_EmptyKeepsCurrent(t *testing.T) {
	assert.Equal(t, 10, NextOffset(nil, 10, discardLogger()))
}
