package domain

import "context"

// Embedder converts batches of free text into numeric vector
// representations. The output is positionally aligned with the input and
// every vector has the same dimensionality for the lifetime of the
// embedder instance.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(texts []string) ([][]float64, error)
}

// SearchProvider runs a web search. Implementations never fail: a provider
// error is reported as a single synthetic result so callers always have
// something renderable.
type SearchProvider interface {
	Search(ctx context.Context, query string, n int) []SearchResult
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
