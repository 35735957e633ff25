package paper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devansh3212/mined-hackathon-2025/sections"
)

func testSections() sections.SectionMap {
	return sections.SectionMap{
		sections.KeyFindings:  {"accuracy up 12%", "cost & time halved"},
		sections.Methodology:  {"transformer encoder"},
		sections.Conclusions:  {"generalizes well"},
		sections.Implications: {"edge deployment feasible"},
	}
}

func TestSummaryLatexContainsAllSectionsInOrder(t *testing.T) {
	w := NewSummaryWriter(t.TempDir())
	latex := w.generateLatex("My Paper", "A short narrative summary.", testSections())

	assert.Contains(t, latex, `\documentclass[11pt]{article}`)
	assert.Contains(t, latex, "A short narrative summary.")

	last := -1
	for _, cat := range sections.CategoryOrder() {
		idx := strings.Index(latex, `\section*{`+string(cat)+`}`)
		require.GreaterOrEqual(t, idx, 0, "missing section %s", cat)
		assert.Greater(t, idx, last, "section %s out of order", cat)
		last = idx
	}
}

func TestSummaryLatexEscapesSpecialChars(t *testing.T) {
	w := NewSummaryWriter(t.TempDir())
	latex := w.generateLatex("Paper 100%_done", "Summary with $ and #.", testSections())

	assert.Contains(t, latex, `100\%\_done`)
	assert.Contains(t, latex, `\$`)
	assert.Contains(t, latex, `\item accuracy up 12\%`)
	assert.Contains(t, latex, `cost \& time halved`)
	assert.NotContains(t, latex, "100%_done")
}

func TestDeckLatexOneFramePerCategory(t *testing.T) {
	d := NewDeckGenerator(t.TempDir())
	latex := d.generateLatex("My Paper", testSections())

	assert.Contains(t, latex, `\documentclass[aspectratio=169]{beamer}`)
	assert.Contains(t, latex, `\titlepage`)

	for _, cat := range sections.CategoryOrder() {
		assert.Contains(t, latex, `\begin{frame}{`+string(cat)+`}`)
	}
	assert.Equal(t, 5, strings.Count(latex, `\begin{frame}`), "title frame plus four category frames")
}
