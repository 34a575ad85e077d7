package generation

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSituateFailed = errors.New("situating context generation failed")
)

// Contextualizer answers situating requests with an LLM.
// It owns the prompt template so callers only pass structured requests.
type Contextualizer struct {
	llm    LLM
	config LLMConfig
}

// NewContextualizer creates a Contextualizer around the given LLM implementation.
func NewContextualizer(llm LLM, config LLMConfig) *Contextualizer {
	return &Contextualizer{
		llm:    llm,
		config: config,
	}
}

// Model returns the configured model identifier.
func (c *Contextualizer) Model() string {
	return c.config.Model
}

// Situate renders the request and returns the raw model response.
// The response is not parsed or validated.
func (c *Contextualizer) Situate(ctx context.Context, req SituateRequest) (string, error) {
	if c.llm == nil {
		return "", fmt.Errorf("%w: LLM is required", ErrSituateFailed)
	}
	if req.Chunk == "" {
		return "", fmt.Errorf("%w: chunk is required", ErrSituateFailed)
	}

	text, err := c.llm.Generate(ctx, RenderSituatePrompt(req))
	if err != nil {
		return "", fmt.Errorf("%w: LLM invocation failed: %w", ErrSituateFailed, err)
	}

	return text, nil
}
