package paper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Devansh3212/mined-hackathon-2025/common"
	"github.com/Devansh3212/mined-hackathon-2025/sections"
)

// SummaryWriter renders the narrative summary and the structured sections
// into a paginated PDF document.
type SummaryWriter struct {
	OutputDir string
}

func NewSummaryWriter(outputDir string) *SummaryWriter {
	return &SummaryWriter{OutputDir: outputDir}
}

// WritePDF writes summary.pdf under OutputDir and returns its path.
func (w *SummaryWriter) WritePDF(title, summary string, secs sections.SectionMap) (string, error) {
	latexContent := w.generateLatex(title, summary, secs)

	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output dir: %w", err)
	}

	texFile := filepath.Join(w.OutputDir, "summary.tex")
	if err := os.WriteFile(texFile, []byte(latexContent), 0644); err != nil {
		return "", fmt.Errorf("error writing tex file: %w", err)
	}

	return compileLatex(w.OutputDir, texFile)
}

func (w *SummaryWriter) generateLatex(title, summary string, secs sections.SectionMap) string {
	var sb strings.Builder

	sb.WriteString(`\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}

\title{` + common.EscapeLatex(title) + `}
\author{AI Research Paper Workbench}
\date{\today}

\begin{document}
\maketitle

\section*{Summary}
` + common.EscapeLatex(summary) + `
`)

	// Sections - Order matters
	for _, cat := range sections.CategoryOrder() {
		sb.WriteString(fmt.Sprintf("\n\\section*{%s}\n", common.EscapeLatex(string(cat))))
		sb.WriteString("\\begin{itemize}\n")
		for _, b := range secs[cat] {
			sb.WriteString("\\item " + common.EscapeLatex(b) + "\n")
		}
		sb.WriteString("\\end{itemize}\n")
	}

	sb.WriteString("\n\\end{document}\n")
	return sb.String()
}
