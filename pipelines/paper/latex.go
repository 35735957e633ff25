package paper

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func compileLatex(outputDir, texFile string) (string, error) {
	cmd := exec.Command("pdflatex", "-interaction=nonstopmode", "-output-directory", outputDir, texFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		fmt.Printf("pdflatex output: %s\n", string(output))
		return "", fmt.Errorf("pdflatex failed: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(texFile), ".tex")
	pdfPath := filepath.Join(outputDir, baseName+".pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		return "", fmt.Errorf("pdf not generated")
	}
	return pdfPath, nil
}
