package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatty/internal/domain"
)

func TestSplit_Deterministic(t *testing.T) {
	c := New(100, 20)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog.\n", 20)

	first := c.Split(text)
	second := c.Split(text)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestSplit_EmptyInput(t *testing.T) {
	c := New(800, 120)
	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("\n\n\n"))
}

func TestSplit_DropsTinyChunks(t *testing.T) {
	c := New(800, 120)
	assert.Nil(t, c.Split("tiny."))

	chunks := c.Split("This sentence is clearly longer than twenty characters.")
	require.Len(t, chunks, 1)
}

func TestSplit_ChunkSizeBound(t *testing.T) {
	size, overlap := 80, 15
	c := New(size, overlap)
	// One very long paragraph forces slicing.
	text := strings.Repeat("abcdefghij ", 60)

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch), size+overlap)
		assert.Greater(t, len(ch), minChunkChars)
	}
}

func TestSplit_OverlapCarriesTail(t *testing.T) {
	size, overlap := 60, 20
	c := New(size, overlap)
	text := "First paragraph with a reasonable amount of text in it.\nSecond paragraph that goes into the next chunk."

	chunks := c.Split(text)
	require.Len(t, chunks, 2)
	// The second chunk starts with the tail of the first.
	tail := chunks[0][len(chunks[0])-overlap:]
	assert.True(t, strings.HasPrefix(chunks[1], strings.TrimSpace(tail)))
}

func TestSplit_OverlapLargerThanSize(t *testing.T) {
	// Both values come from user config, so an overlap above the chunk
	// size must degrade instead of crashing the slicer.
	size := 100
	c := New(size, 200)
	text := strings.Repeat("a", 400)

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.Less(t, len(ch), 2*size)
	}
	assert.Equal(t, chunks, New(size, 200).Split(text))
}

func TestSplit_ForceSplitKeepsRunesIntact(t *testing.T) {
	// Two-byte runes, so any byte-offset cut at an odd index would land
	// mid-rune.
	text := strings.Repeat("é", 300)
	for _, c := range []*Chunker{New(101, 0), New(101, 25)} {
		chunks := c.Split(text)
		require.NotEmpty(t, chunks)
		for _, ch := range chunks {
			assert.True(t, utf8.ValidString(ch), "chunk %q", ch)
		}
	}
}

func TestSplitAll_Ordinals(t *testing.T) {
	c := New(60, 10)
	docs := []domain.Document{
		{Name: "a.txt", Text: strings.Repeat("Plenty of text for the first document here.\n", 5)},
		{Name: "b.txt", Text: strings.Repeat("And some more text for the second document.\n", 5)},
	}

	chunks := c.SplitAll(docs)
	require.NotEmpty(t, chunks)

	next := map[int]int{}
	lastDoc := 0
	for _, ch := range chunks {
		assert.GreaterOrEqual(t, ch.Doc, lastDoc, "document order preserved")
		lastDoc = ch.Doc
		next[ch.Doc]++
		assert.Equal(t, next[ch.Doc], ch.Index, "chunk ordinals contiguous from 1")
	}
	assert.Contains(t, next, 1)
	assert.Contains(t, next, 2)
}
