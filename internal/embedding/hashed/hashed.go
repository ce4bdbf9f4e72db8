package hashed

import (
	"hash/fnv"
	"math"
	"strings"
)

// DefaultDimension is the vector size used when none is configured.
const DefaultDimension = 512

// Embedder is a dependency-free bag-of-words embedder. Tokens are hashed
// into a fixed number of slots and the resulting vector is L2-normalized.
// Hash collisions across distinct tokens are accepted as noise. The same
// text always produces the same vector.
type Embedder struct {
	dimension int
}

func New(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{dimension: dimension}
}

func (e *Embedder) Name() string { return "hashed" }

func (e *Embedder) Dimension() int { return e.dimension }

// Embed maps each text to a hashed bag-of-words vector. A text with no
// tokens yields an all-zero vector; the norm guard keeps it that way.
func (e *Embedder) Embed(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = e.embedOne(text)
	}
	return out, nil
}

func (e *Embedder) embedOne(text string) []float64 {
	vec := make([]float64, e.dimension)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return vec
	}
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		vec[h.Sum64()%uint64(e.dimension)]++
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
