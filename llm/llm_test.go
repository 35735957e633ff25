package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratorUnknownProvider(t *testing.T) {
	_, err := NewGenerator("llama-on-a-floppy", "key", "")
	assert.Error(t, err)
}

func TestNewGeneratorOpenAI(t *testing.T) {
	gen, err := NewGenerator("openai", "key", "")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &GenerationError{Backend: "gemini", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini")
	assert.Contains(t, err.Error(), "connection refused")
}
