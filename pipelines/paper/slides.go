package paper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/Devansh3212/mined-hackathon-2025/common"
	"github.com/Devansh3212/mined-hackathon-2025/sections"
)

// DeckGenerator renders the structured sections into a beamer slide deck:
// a title slide plus one slide per category.
type DeckGenerator struct {
	OutputDir string
}

func NewDeckGenerator(outputDir string) *DeckGenerator {
	return &DeckGenerator{OutputDir: outputDir}
}

// GenerateDeck compiles the deck and renders each page as a PNG. It returns
// the deck PDF path and the rendered slide image paths.
func (d *DeckGenerator) GenerateDeck(title string, secs sections.SectionMap) (string, []string, error) {
	latexContent := d.generateLatex(title, secs)

	if err := os.MkdirAll(d.OutputDir, 0755); err != nil {
		return "", nil, fmt.Errorf("error creating output dir: %w", err)
	}

	texFile := filepath.Join(d.OutputDir, "presentation.tex")
	if err := os.WriteFile(texFile, []byte(latexContent), 0644); err != nil {
		return "", nil, fmt.Errorf("error writing tex file: %w", err)
	}

	pdfPath, err := compileLatex(d.OutputDir, texFile)
	if err != nil {
		return "", nil, err
	}

	images, err := d.convertToImages(pdfPath)
	return pdfPath, images, err
}

func (d *DeckGenerator) generateLatex(title string, secs sections.SectionMap) string {
	var sb strings.Builder

	sb.WriteString(`\documentclass[aspectratio=169]{beamer}
\usetheme{Madrid}
\usecolortheme{whale}

\title{` + common.EscapeLatex(title) + `}
\author{AI Research Paper Workbench}
\date{\today}

\begin{document}

\begin{frame}
\titlepage
\end{frame}
`)

	// Sections - Order matters
	for _, cat := range sections.CategoryOrder() {
		name := string(cat)
		sb.WriteString(fmt.Sprintf("\\section{%s}\n", name))

		sb.WriteString("\\begin{frame}{" + name + "}\n")
		sb.WriteString("\\begin{itemize}\n")
		for _, b := range secs[cat] {
			sb.WriteString("\\item " + common.EscapeLatex(b) + "\n")
		}
		sb.WriteString("\\end{itemize}\n")
		sb.WriteString("\\end{frame}\n")
	}

	sb.WriteString("\\end{document}")
	return sb.String()
}

func (d *DeckGenerator) convertToImages(pdfPath string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var images []string
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImagePNG(i, 150)
		if err != nil {
			return nil, err
		}

		imgPath := filepath.Join(d.OutputDir, fmt.Sprintf("slide_%03d.png", i))
		if err := os.WriteFile(imgPath, img, 0644); err != nil {
			return nil, err
		}
		images = append(images, imgPath)
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no slides generated")
	}
	return images, nil
}
