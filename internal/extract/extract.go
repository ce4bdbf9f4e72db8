// Package extract converts uploaded file bytes into plain text. Partially
// unreadable content is skipped rather than failing the whole document; a
// wholly unreadable file comes back as an empty string for the caller to
// warn about.
package extract

import (
	"path/filepath"
	"strings"
)

// Read extracts text from file bytes, dispatching on the file extension.
// Anything that is not a PDF or DOCX is treated as plain text.
func Read(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return readPDF(data)
	case ".docx":
		return readDOCX(data)
	default:
		return readText(data), nil
	}
}
