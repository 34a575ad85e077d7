// Package generation provides the generative-model side of contextual retrieval.
// It defines a provider-agnostic LLM interface with concrete implementations for
// OpenAI and Gemini, a deterministic mock for testing, and a Contextualizer that
// turns a structured situating request into a provider prompt.
package generation

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	// Returns the generated text or an error if generation fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// SituateRequest asks for a short description placing Chunk within Scene.
type SituateRequest struct {
	// Scene is the full text of the enclosing scene
	Scene string

	// Chunk is the passage to situate
	Chunk string

	// Instructions replaces the default instruction text when non-empty
	Instructions string
}

// Situator produces a situating blurb for a chunk.
type Situator interface {
	Situate(ctx context.Context, req SituateRequest) (string, error)
}

// LLMConfig holds common configuration options for LLM providers.
type LLMConfig struct {
	// Model specifies the model identifier (e.g., "gpt-4o-mini", "gemini-1.5-flash")
	Model string

	// Temperature controls randomness (0.0 = provider default)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string

	// BaseURL points an OpenAI client at a compatible endpoint
	BaseURL string
}

// DefaultLLMConfig returns sensible defaults for situating blurbs.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:       "gpt-4o-mini",
		Temperature: 0, // model default
		MaxTokens:   256,
	}
}
