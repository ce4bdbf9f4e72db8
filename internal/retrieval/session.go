package retrieval

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"chatty/internal/chunker"
	"chatty/internal/domain"
)

// Index pairs every chunk with its embedding. The two slices are
// positionally aligned and always the same length.
type Index struct {
	Chunks  []domain.Chunk
	Vectors [][]float64
}

// Session owns the uploaded document set and the derived in-memory index.
// The index is rebuilt whenever the fingerprint of the document set
// changes and reused otherwise; re-embedding is the dominant cost, so any
// edit invalidates the whole index rather than patching it incrementally.
// The mutex makes a rebuild exclusive: a query never observes a half-built
// index.
type Session struct {
	mu       sync.Mutex
	embedder domain.Embedder
	chunker  *chunker.Chunker

	docs        []domain.Document
	index       *Index
	fingerprint string
}

func NewSession(embedder domain.Embedder, ch *chunker.Chunker) *Session {
	return &Session{embedder: embedder, chunker: ch}
}

// SetDocuments replaces the document set wholesale.
func (s *Session) SetDocuments(docs []domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append([]domain.Document(nil), docs...)
}

// AddDocument appends one document to the set.
func (s *Session) AddDocument(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

// Clear removes every document. The index is invalidated lazily via the
// fingerprint on the next query.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
}

// Documents returns a copy of the current document set.
func (s *Session) Documents() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Document(nil), s.docs...)
}

// DocumentCount reports how many documents are loaded.
func (s *Session) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Build chunks all documents, embeds every chunk in one batched call and
// returns the paired index. An empty document set yields an empty index.
func (s *Session) Build() (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.build()
}

func (s *Session) build() (*Index, error) {
	chunks := s.chunker.SplitAll(s.docs)
	if len(chunks) == 0 {
		return &Index{}, nil
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := s.embedder.Embed(texts)
	if err != nil {
		return nil, err
	}
	return &Index{Chunks: chunks, Vectors: vectors}, nil
}

// ensure returns the cached index when the document fingerprint is
// unchanged and rebuilds it otherwise. Callers must hold the mutex.
func (s *Session) ensure() (*Index, error) {
	fp := fingerprint(s.docs)
	if s.index != nil && s.fingerprint == fp {
		return s.index, nil
	}
	idx, err := s.build()
	if err != nil {
		return nil, err
	}
	s.index = idx
	s.fingerprint = fp
	return idx, nil
}

// fingerprint hashes the concatenated document texts. Any change to any
// document, including order, produces a different digest. An empty set
// maps to the empty string.
func fingerprint(docs []domain.Document) string {
	if len(docs) == 0 {
		return ""
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	sum := sha256.Sum256([]byte(strings.Join(texts, "\n\n---\n\n")))
	return hex.EncodeToString(sum[:])
}
