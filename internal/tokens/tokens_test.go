package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	samples := []string{
		"",
		"hello world",
		"Numbers like 1234567 get split, punctuation! too...",
		"unicode: héllo wörld über",
		"  leading and   internal   spaces  ",
		"extraordinarily incomprehensibilities",
	}
	for _, s := range samples {
		assert.Equal(t, s, Decode(Encode(s)))
	}
}

func TestCount_Stable(t *testing.T) {
	text := "The same text always has the same token count."
	assert.Equal(t, Count(text), Count(text))
	assert.Zero(t, Count(""))
	assert.Positive(t, Count("word"))
}

func TestCount_LongWordsCostMore(t *testing.T) {
	assert.Greater(t, Count("incomprehensibilities"), 1)
}

func TestTruncate_FitsUnchanged(t *testing.T) {
	text := "short message"
	assert.Equal(t, text, Truncate(text, 100))
}

func TestTruncate_PrefixTruncation(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 50)
	got := Truncate(text, 10)

	assert.True(t, strings.HasPrefix(text, got), "truncation keeps a prefix")
	assert.Equal(t, 10, Count(got))
	assert.Less(t, len(got), len(text))
}

func TestTruncate_ZeroBudget(t *testing.T) {
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestEncode_SpaceGluesToWord(t *testing.T) {
	units := Encode("a b")
	require.Equal(t, []string{"a", " b"}, units)
}
