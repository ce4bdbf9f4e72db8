package chunker

import (
	"strings"
	"unicode/utf8"

	"chatty/internal/domain"
)

// minChunkChars filters out fragments too short to be useful retrieval
// units.
const minChunkChars = 20

// Chunker splits document text into overlapping, size-bounded chunks.
// Splitting is deterministic: the same text and parameters always produce
// the same chunk sequence, which the retrieval fingerprint relies on.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split breaks text into chunks of at most size+overlap characters.
// Paragraphs are accumulated greedily; when the next paragraph would not
// fit, the buffer is flushed and the new buffer is seeded with the tail of
// the flushed chunk so local context carries across the boundary. A single
// oversized paragraph is force-split into size-length slices with the same
// overlap tail. Chunks shorter than minChunkChars are dropped.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	buf := ""
	for _, line := range strings.Split(text, "\n") {
		p := strings.TrimSpace(line)
		if p == "" {
			continue
		}
		if len(buf)+len(p)+1 > c.size && buf != "" {
			chunks = append(chunks, strings.TrimSpace(buf))
			buf = strings.TrimSpace(c.tail(buf) + " " + p)
		} else if buf != "" {
			buf += "\n" + p
		} else {
			buf = p
		}
		for len(buf) > c.size+c.overlap {
			cut := runeBound(buf, c.size)
			if cut == 0 {
				_, w := utf8.DecodeRuneInString(buf)
				cut = w
			}
			chunks = append(chunks, strings.TrimSpace(buf[:cut]))
			rest := runeBound(buf, cut-c.overlap)
			if rest <= 0 {
				rest = cut
			}
			buf = strings.TrimSpace(buf[rest:])
		}
	}
	if buf != "" {
		chunks = append(chunks, strings.TrimSpace(buf))
	}
	kept := chunks[:0]
	for _, ch := range chunks {
		if len(ch) > minChunkChars {
			kept = append(kept, ch)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// SplitAll chunks every document in order, assigning 1-based document and
// chunk ordinals. Chunk ordinals are contiguous within a document.
func (c *Chunker) SplitAll(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for di, doc := range docs {
		for ci, part := range c.Split(doc.Text) {
			chunks = append(chunks, domain.Chunk{
				Text:  part,
				Doc:   di + 1,
				Index: ci + 1,
			})
		}
	}
	return chunks
}

// tail returns the trailing overlap characters of a flushed chunk.
func (c *Chunker) tail(buf string) string {
	if c.overlap <= 0 {
		return ""
	}
	if len(buf) <= c.overlap {
		return buf
	}
	return buf[runeBound(buf, len(buf)-c.overlap):]
}

// runeBound backs i off to the nearest rune start so a byte-offset cut
// never splits a multi-byte rune.
func runeBound(s string, i int) int {
	if i <= 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
