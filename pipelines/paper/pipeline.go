package paper

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Devansh3212/mined-hackathon-2025/common"
	"github.com/Devansh3212/mined-hackathon-2025/llm"
	"github.com/Devansh3212/mined-hackathon-2025/sections"
)

// ProcessPaperPipeline executes the full PDF to artifact-bundle workflow:
// summary text, structured summary PDF, graphical abstract, voiceover and
// slide deck, all written under config.OutputDir.
func ProcessPaperPipeline(ctx context.Context, config common.PipelineConfig, gen llm.Generator) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	log.Printf("Starting paper pipeline for %s -> %s", config.PDFPath, config.OutputDir)

	// 1. PDF text extraction
	log.Println("Step 1: Extracting text from PDF...")
	pdfProc, err := common.NewPDFProcessor(config.PDFPath)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer pdfProc.Close()

	text, err := pdfProc.ExtractText()
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}
	log.Printf("Extracted %d chars of text", len(text))

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text extracted")
	}

	// 2. Narrative summary
	log.Println("Step 2: Generating summary...")
	summary, err := generateSummary(ctx, gen, text, config.SummaryLength)
	if err != nil {
		return fmt.Errorf("summary generation failed: %w", err)
	}
	os.WriteFile(filepath.Join(config.OutputDir, "summary.txt"), []byte(summary), 0644)

	// 3. Structured sections (never fails; worst case placeholder content)
	log.Println("Step 3: Extracting structured sections...")
	secs := sections.Extract(ctx, summary, gen)

	title := strings.TrimSuffix(filepath.Base(config.PDFPath), filepath.Ext(config.PDFPath))

	// 4. Summary PDF
	log.Println("Step 4: Writing summary PDF...")
	writer := NewSummaryWriter(config.OutputDir)
	if _, err := writer.WritePDF(title, summary, secs); err != nil {
		return fmt.Errorf("summary PDF generation failed: %w", err)
	}

	// 5. Slide deck
	log.Println("Step 5: Generating slide deck...")
	deck := NewDeckGenerator(filepath.Join(config.OutputDir, "slides"))
	deckPDF, _, err := deck.GenerateDeck(title, secs)
	if err != nil {
		return fmt.Errorf("slide generation failed: %w", err)
	}
	log.Printf("Deck generated at %s", deckPDF)

	// 6. Graphical abstract (placeholder on failure, never aborts the job)
	log.Println("Step 6: Generating graphical abstract...")
	img := NewImageClient(config.HuggingFaceKey)
	abstractPath := img.GenerateAbstract(ctx, summary, filepath.Join(config.OutputDir, "graphical_abstract.png"))
	log.Printf("Graphical abstract at %s", abstractPath)

	// 7. Voiceover
	if config.ElevenLabsKey == "" {
		log.Println("Step 7: Skipping voiceover (no ELEVENLABS_API_KEY)")
	} else {
		log.Println("Step 7: Generating voiceover...")
		tts := NewElevenLabsClient(config.ElevenLabsKey)
		if _, err := tts.GenerateAudio(ctx, summary, config.OutputDir, "voiceover"); err != nil {
			return fmt.Errorf("voiceover generation failed: %w", err)
		}
	}

	log.Printf("Paper pipeline complete for %s", title)
	return nil
}

func generateSummary(ctx context.Context, gen llm.Generator, text, length string) (string, error) {
	if !common.ValidLength(length) {
		length = common.LengthMedium
	}

	prompt := fmt.Sprintf(`Write a %s summary of the following research paper.
Cover the problem, the approach and the main results in plain prose.

Text:
%s`, length, text)

	summary, err := gen.Generate(ctx, prompt, common.SummaryMaxTokens(length))
	if err != nil {
		return "", err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("empty summary from generator")
	}
	return summary, nil
}
