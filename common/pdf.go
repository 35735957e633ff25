package common

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDFProcessor handles text extraction from an uploaded paper.
type PDFProcessor struct {
	Path     string
	NumPages int

	doc *fitz.Document
}

// NewPDFProcessor opens the PDF at path.
func NewPDFProcessor(path string) (*PDFProcessor, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}

	return &PDFProcessor{
		Path:     path,
		NumPages: doc.NumPage(),
		doc:      doc,
	}, nil
}

// Close cleans up resources
func (p *PDFProcessor) Close() {
	if p.doc != nil {
		p.doc.Close()
	}
}

// ExtractText extracts all text from the PDF
func (p *PDFProcessor) ExtractText() (string, error) {
	var sb strings.Builder
	for i := 0; i < p.NumPages; i++ {
		text, err := p.doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("error extracting text from page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
