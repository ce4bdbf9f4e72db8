package retrieval

import (
	"fmt"
	"math"
	"sort"

	"chatty/internal/domain"
)

// Search cosine-ranks every indexed chunk against the query and returns
// the top results as citation-tagged context lines plus the chunk
// references behind them. An empty index yields empty results, not an
// error. Ties keep their original index order.
func (s *Session) Search(query string, topK int) ([]string, []domain.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.ensure()
	if err != nil {
		return nil, nil, err
	}
	if len(idx.Chunks) == 0 {
		return nil, nil, nil
	}

	qvecs, err := s.embedder.Embed([]string{query})
	if err != nil {
		return nil, nil, err
	}
	qvec := qvecs[0]

	scores := make([]float64, len(idx.Chunks))
	for i, vec := range idx.Vectors {
		scores[i] = cosine(qvec, vec)
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK < 1 {
		topK = 1
	}
	if topK > len(order) {
		topK = len(order)
	}

	lines := make([]string, 0, topK)
	refs := make([]domain.Ref, 0, topK)
	for _, i := range order[:topK] {
		ch := idx.Chunks[i]
		lines = append(lines, fmt.Sprintf("[D%d-%d] (sim=%.3f)\n%s", ch.Doc, ch.Index, scores[i], ch.Text))
		refs = append(refs, domain.Ref{Doc: ch.Doc, Chunk: ch.Index})
	}
	return lines, refs, nil
}

// cosine returns dot(a,b)/(|a||b|), or 0 for mismatched or zero-norm
// vectors.
func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
