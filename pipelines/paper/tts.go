package paper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Devansh3212/mined-hackathon-2025/httputil"
)

// Lily, one of the ElevenLabs premade voices.
const defaultVoiceID = "pFZP5JQG7iQjIQuC4Bku"

const ttsChunkSize = 2500

// ElevenLabsClient synthesizes speech through the ElevenLabs API.
type ElevenLabsClient struct {
	APIKey     string
	BaseURL    string
	VoiceID    string
	httpClient *http.Client
}

func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		APIKey:  apiKey,
		BaseURL: "https://api.elevenlabs.io",
		VoiceID: defaultVoiceID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GenerateAudio writes an MP3 voiceover for text to outputDir/filename.mp3.
// Long text is synthesized in sentence-aligned chunks and concatenated.
func (c *ElevenLabsClient) GenerateAudio(ctx context.Context, text, outputDir, filename string) (string, error) {
	text = cleanTextForTTS(text)
	if text == "" {
		return "", fmt.Errorf("empty text after cleaning")
	}

	chunks := splitTextIntoChunks(text, ttsChunkSize)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := c.synthesizeChunk(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("synthesizing chunk %d: %w", i, err)
		}
		audio.Write(data)
	}

	finalPath := filepath.Join(outputDir, filename+".mp3")
	if err := os.WriteFile(finalPath, audio.Bytes(), 0644); err != nil {
		return "", err
	}
	return finalPath, nil
}

func (c *ElevenLabsClient) synthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.BaseURL, c.VoiceID)

	payload := map[string]interface{}{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
	}

	jsonPayload, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 3)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func cleanTextForTTS(text string) string {
	text = regexp.MustCompile(`\*\*([^*]+)\*\*`).ReplaceAllString(text, "$1")
	text = regexp.MustCompile(`\*([^*]+)\*`).ReplaceAllString(text, "$1")
	text = regexp.MustCompile(`#+\s*`).ReplaceAllString(text, "")
	text = regexp.MustCompile(`[^\w\s.,!?;:\-()\"']`).ReplaceAllString(text, " ")
	text = regexp.MustCompile(`\s+`).ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func splitTextIntoChunks(text string, maxLength int) []string {
	if len(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	sentences := regexp.MustCompile(`[.!?]+\s+`).Split(text, -1)

	currentChunk := ""
	for _, sentence := range sentences {
		if len(currentChunk)+len(sentence)+1 <= maxLength {
			currentChunk += sentence + " "
		} else {
			if currentChunk != "" {
				chunks = append(chunks, strings.TrimSpace(currentChunk))
			}
			currentChunk = sentence + " "
		}
	}
	if currentChunk != "" {
		chunks = append(chunks, strings.TrimSpace(currentChunk))
	}
	return chunks
}
