package common

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, read from the environment.
type Config struct {
	LLMProvider    string `env:"LLM_PROVIDER"           envDefault:"gemini"`
	LLMModel       string `env:"LLM_MODEL"`
	GeminiKey      string `env:"GEMINI_API_KEY"`
	OpenAIKey      string `env:"OPENAI_API_KEY"`
	ElevenLabsKey  string `env:"ELEVENLABS_API_KEY"`
	HuggingFaceKey string `env:"HUGGINGFACE_API_TOKEN"`
	DBPath         string `env:"DB_PATH"                envDefault:"workbench.db"`
	UploadDir      string `env:"UPLOAD_DIR"             envDefault:"./uploads"`
	OutputRoot     string `env:"OUTPUT_DIR"             envDefault:"./output"`
	RetentionHours int    `env:"RETENTION_HOURS"        envDefault:"24"`
}

// LoadConfig reads .env if present and parses the environment.
func LoadConfig() (Config, error) {
	godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// LLMKey returns the API key for the configured provider.
func (c Config) LLMKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIKey
	}
	return c.GeminiKey
}
