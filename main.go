package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Devansh3212/mined-hackathon-2025/common"
	"github.com/Devansh3212/mined-hackathon-2025/llm"
	"github.com/Devansh3212/mined-hackathon-2025/pipelines/paper"
)

func main() {
	serverMode := flag.Bool("server", false, "Run as HTTP server")
	port := flag.String("port", ":8080", "Server port (only with --server)")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of worker goroutines (only with --server)")
	length := flag.String("length", common.LengthMedium, "Summary length: short, medium or long")
	flag.Parse()

	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if cfg.LLMKey() == "" {
		log.Fatalf("Please set %s_API_KEY environment variable", apiKeyName(cfg.LLMProvider))
	}

	if *serverMode {
		StartServer(cfg, *port, *workers)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		log.Fatal("Usage: workbench [--length=short|medium|long] <pdf_path>\n       workbench --server [--port=:8080] [--workers=4]")
	}
	pdfPath := args[0]

	if !common.ValidLength(*length) {
		log.Fatalf("Unknown length: %s. Use 'short', 'medium' or 'long'", *length)
	}

	gen, err := llm.NewGenerator(cfg.LLMProvider, cfg.LLMKey(), cfg.LLMModel)
	if err != nil {
		log.Fatalf("LLM init failed: %v", err)
	}

	config := common.PipelineConfig{
		PDFPath:        pdfPath,
		OutputDir:      filepath.Join(cfg.OutputRoot, "output_"+time.Now().Format("20060102_150405")),
		SummaryLength:  *length,
		ElevenLabsKey:  cfg.ElevenLabsKey,
		HuggingFaceKey: cfg.HuggingFaceKey,
	}

	if err := paper.ProcessPaperPipeline(context.Background(), config, gen); err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	log.Println("Pipeline completed successfully!")
}

func apiKeyName(provider string) string {
	if provider == "openai" {
		return "OPENAI"
	}
	return "GEMINI"
}
