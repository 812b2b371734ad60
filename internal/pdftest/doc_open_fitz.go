package pdftest

import (
	"fmt"
	"strings"

	fitz "github.com/gen2brain/go-fitz"
)

// Texts extracts the text of every page with go-fitz (MuPDF), trimmed.
func Texts(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	texts := make([]string, doc.NumPage())
	for i := range texts {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("text page %d: %w", i+1, err)
		}
		texts[i] = strings.TrimSpace(text)
	}
	return texts, nil
}
