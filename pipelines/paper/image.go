package paper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Devansh3212/mined-hackathon-2025/httputil"
)

const defaultImageModel = "stabilityai/stable-diffusion-xl-base-1.0"

// The image prompt only needs the opening of the summary.
const imagePromptBudget = 300

// ImageClient generates the graphical abstract through the Hugging Face
// inference API.
type ImageClient struct {
	APIKey     string
	BaseURL    string
	Model      string
	httpClient *http.Client
}

func NewImageClient(apiKey string) *ImageClient {
	return &ImageClient{
		APIKey:  apiKey,
		BaseURL: "https://api-inference.huggingface.co",
		Model:   defaultImageModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// GenerateAbstract writes a graphical abstract PNG for the summary to
// outputPath. On any failure it writes a placeholder image instead of
// returning an error, so the bundle always contains the artifact.
func (c *ImageClient) GenerateAbstract(ctx context.Context, summary, outputPath string) string {
	prompt := "Graphical abstract for a research paper: " + truncate(summary, imagePromptBudget)

	data, err := c.generate(ctx, prompt)
	if err != nil {
		log.Printf("Graphical abstract generation failed, using placeholder: %v", err)
		if err := writePlaceholderPNG(outputPath); err != nil {
			log.Printf("Failed to write placeholder image: %v", err)
		}
		return outputPath
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Printf("Failed to save graphical abstract: %v", err)
	}
	return outputPath
}

func (c *ImageClient) generate(ctx context.Context, prompt string) ([]byte, error) {
	url := fmt.Sprintf("%s/models/%s", c.BaseURL, c.Model)

	payload := map[string]string{"inputs": prompt}
	jsonPayload, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 3)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image in response")
	}
	return data, nil
}

func writePlaceholderPNG(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 512, 512))
	gray := color.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			img.Set(x, y, gray)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
