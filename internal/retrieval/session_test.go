package retrieval

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatty/internal/chunker"
	"chatty/internal/domain"
	"chatty/internal/embedding/hashed"
)

// countingEmbedder wraps the hashed embedder and counts Embed calls so
// tests can observe when the index is rebuilt.
type countingEmbedder struct {
	inner *hashed.Embedder
	calls int
}

func (c *countingEmbedder) Name() string   { return "counting" }
func (c *countingEmbedder) Dimension() int { return c.inner.Dimension() }
func (c *countingEmbedder) Embed(texts []string) ([][]float64, error) {
	c.calls++
	return c.inner.Embed(texts)
}

func newTestSession() (*Session, *countingEmbedder) {
	emb := &countingEmbedder{inner: hashed.New(128)}
	return NewSession(emb, chunker.New(800, 120)), emb
}

func TestSearch_EmptyDocumentSet(t *testing.T) {
	s, _ := newTestSession()
	lines, refs, err := s.Search("anything", 5)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Empty(t, refs)
}

func TestSearch_ReusesIndexWhileUnchanged(t *testing.T) {
	s, emb := newTestSession()
	s.SetDocuments([]domain.Document{{Name: "doc", Text: "The sky is blue. Water is wet."}})

	_, _, err := s.Search("sky", 5)
	require.NoError(t, err)
	// First search embeds the chunks and the query.
	assert.Equal(t, 2, emb.calls)

	_, _, err = s.Search("water", 5)
	require.NoError(t, err)
	// Second search only embeds the query.
	assert.Equal(t, 3, emb.calls)
}

func TestSearch_AnyEditRebuildsIndex(t *testing.T) {
	s, emb := newTestSession()
	s.SetDocuments([]domain.Document{{Name: "doc", Text: "The sky is blue. Water is wet."}})

	_, _, err := s.Search("sky", 5)
	require.NoError(t, err)
	require.Equal(t, 2, emb.calls)

	// One changed character invalidates the whole index.
	s.SetDocuments([]domain.Document{{Name: "doc", Text: "The sky is blue. Water is Wet."}})
	_, _, err = s.Search("sky", 5)
	require.NoError(t, err)
	assert.Equal(t, 4, emb.calls)
}

func TestSearch_TopKAndOrdering(t *testing.T) {
	s, _ := newTestSession()
	s.SetDocuments([]domain.Document{
		{Name: "a", Text: "Go is a statically typed compiled language."},
		{Name: "b", Text: "Cooking pasta requires boiling salted water."},
		{Name: "c", Text: "Go compilers produce fast statically linked binaries."},
	})

	lines, refs, err := s.Search("statically typed Go", 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Len(t, refs, 2)

	sims := make([]float64, len(lines))
	for i, line := range lines {
		sims[i] = lineSim(t, line)
	}
	assert.GreaterOrEqual(t, sims[0], sims[1], "results sorted by non-increasing similarity")
}

func TestSearch_TopKFloorIsOne(t *testing.T) {
	s, _ := newTestSession()
	s.SetDocuments([]domain.Document{{Name: "doc", Text: "The sky is blue. Water is wet."}})

	lines, _, err := s.Search("sky", 0)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestSearch_CitationFormat(t *testing.T) {
	s, _ := newTestSession()
	s.SetDocuments([]domain.Document{{Name: "doc", Text: "The sky is blue. Water is wet."}})

	lines, refs, err := s.Search("what color is the sky", 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "[D1-1] (sim="))
	assert.Contains(t, lines[0], "sky is blue")
	assert.Equal(t, []domain.Ref{{Doc: 1, Chunk: 1}}, refs)
}

func TestBuild_ParallelArrays(t *testing.T) {
	s, _ := newTestSession()
	s.SetDocuments([]domain.Document{
		{Name: "a", Text: "First document with enough text to produce a chunk."},
		{Name: "b", Text: "Second document with enough text to produce a chunk."},
	})

	idx, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, len(idx.Chunks), len(idx.Vectors))
	assert.NotEmpty(t, idx.Chunks)
}

func TestCosine_ZeroNormGuard(t *testing.T) {
	assert.Zero(t, cosine([]float64{0, 0}, []float64{1, 2}))
	assert.Zero(t, cosine([]float64{1, 2}, []float64{0, 0}))
	assert.Zero(t, cosine(nil, nil))
	assert.Zero(t, cosine([]float64{1}, []float64{1, 2}))
	assert.InDelta(t, 1.0, cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
}

// lineSim pulls the similarity out of a formatted context line.
func lineSim(t *testing.T, line string) float64 {
	t.Helper()
	start := strings.Index(line, "(sim=")
	require.GreaterOrEqual(t, start, 0)
	rest := line[start+len("(sim="):]
	end := strings.Index(rest, ")")
	require.Greater(t, end, 0)
	v, err := strconv.ParseFloat(rest[:end], 64)
	require.NoError(t, err)
	return v
}
