package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yates-Labs/folio/internal/document"
	"github.com/Yates-Labs/folio/internal/generation"
)

var (
	ErrAnnotationFailed = errors.New("context annotation failed")
)

// Annotator turns a window into the text that gets embedded.
type Annotator interface {
	Annotate(ctx context.Context, w document.Window) (string, error)
}

// IdentityAnnotator embeds the passage as is.
type IdentityAnnotator struct{}

// Annotate returns the passage text unchanged.
func (IdentityAnnotator) Annotate(_ context.Context, w document.Window) (string, error) {
	return w.Passage, nil
}

// ContextAnnotator appends a generated blurb situating the passage in its scene.
type ContextAnnotator struct {
	situator     generation.Situator
	instructions string
}

// NewContextAnnotator creates an annotator backed by situator.
// An empty instructions string selects the provider's default instructions.
func NewContextAnnotator(situator generation.Situator, instructions string) *ContextAnnotator {
	return &ContextAnnotator{
		situator:     situator,
		instructions: instructions,
	}
}

// Annotate returns the passage followed by a blank line and the raw model response.
func (a *ContextAnnotator) Annotate(ctx context.Context, w document.Window) (string, error) {
	if a.situator == nil {
		return "", fmt.Errorf("%w: situator cannot be nil", ErrAnnotationFailed)
	}

	blurb, err := a.situator.Situate(ctx, generation.SituateRequest{
		Scene:        w.Scene,
		Chunk:        w.Passage,
		Instructions: a.instructions,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAnnotationFailed, err)
	}

	return w.Passage + "\n\n" + blurb, nil
}
