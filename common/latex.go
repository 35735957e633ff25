package common

import "strings"

// EscapeLatex escapes special LaTeX characters in text
func EscapeLatex(text string) string {
	// Order matters! Backslash must be replaced first
	replacements := []struct{ old, new string }{
		{"\\", "\\textbackslash{}"},
		{"&", "\\&"},
		{"%", "\\%"},
		{"$", "\\$"},
		{"#", "\\#"},
		{"_", "\\_"},
		{"{", "\\{"},
		{"}", "\\}"},
		{"~", "\\textasciitilde{}"},
		{"^", "\\textasciicircum{}"},
	}
	for _, r := range replacements {
		text = strings.ReplaceAll(text, r.old, r.new)
	}
	return text
}
