package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyIsDeterministic(t *testing.T) {
	cases := []struct {
		index int
		text  string
	}{
		{0, "How satisfied are you?"},
		{4, "  padded  "},
		{12, "A, B, C"},
		{3, ""},
	}
	for _, c := range cases {
		assert.Equal(t, Key(c.index, c.text), Key(c.index, c.text))
	}
}

func TestKeyFormat(t *testing.T) {
	assert.Equal(t, "Q1: How satisfied are you?", Key(0, "How satisfied are you?"))
	assert.Equal(t, "Q10: Name", Key(9, " Name "))
}

func TestKeySanitizesCommas(t *testing.T) {
	assert.Equal(t, "Q1: Do you like A; B; or C?", Key(0, "Do you like A, B, or C?"))
}

func TestIsReserved(t *testing.T) {
	for _, k := range []string{"Response ID", "Submitted At", "Created At", "Email"} {
		assert.True(t, IsReserved(k), k)
	}
	assert.False(t, IsReserved("Q1: Email"))
	assert.False(t, IsReserved("email"))
}

func TestParseKey(t *testing.T) {
	idx, text, ok := ParseKey("Q3: What is your role?")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "What is your role?", text)

	_, _, ok = ParseKey("Favourite colour")
	assert.False(t, ok)

	_, _, ok = ParseKey("Q0: zero is not a position")
	assert.False(t, ok)
}

func TestParseKeyInvertsKey(t *testing.T) {
	idx, text, ok := ParseKey(Key(6, "Which team?"))
	assert.True(t, ok)
	assert.Equal(t, 6, idx)
	assert.Equal(t, "Which team?", text)
}
