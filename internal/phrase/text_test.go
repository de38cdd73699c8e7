package phrase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripPunctuation(t *testing.T) {
	assert.Equal(t, "привет как дела", StripPunctuation(`«привет», как (дела)?!`))
	assert.Equal(t, "abc", StripPunctuation(`a/b\c#"'`))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"ёжик", "в", "тумане,", "привет!"}, Tokenize("  Ёжик В\tТУМАНЕ,\nпривет! "))
	assert.Empty(t, Tokenize(" \n "))
}

func TestTriggerKey(t *testing.T) {
	assert.Equal(t, "бот ты где", TriggerKey("Бот, ты где?"))
	assert.Equal(t, "доброе утро", TriggerKey("  Доброе   утро "))
	assert.Equal(t, "", TriggerKey("?!"))
}
