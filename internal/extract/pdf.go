package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDF extracts the plain text of every readable page. Pages that fail
// to parse are skipped.
func readPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if text, ok := pageText(reader, i); ok {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// pageText isolates per-page extraction; the pdf library panics on some
// malformed content objects and a bad page must not take down the rest of
// the document.
func pageText(reader *pdf.Reader, n int) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	page := reader.Page(n)
	if page.V.IsNull() {
		return "", false
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return text, true
}
