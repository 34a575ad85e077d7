// Package provider builds the API clients shared by the embedding and generation layers.
package provider

import (
	"errors"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var ErrMissingOpenAIKey = errors.New("missing API key (set OPENAI_API_KEY or provide in config)")

// OpenAIOptions resolves the request options for an OpenAI-compatible endpoint.
// An empty apiKey falls back to OPENAI_API_KEY; an empty baseURL keeps the
// public API.
func OpenAIOptions(apiKey, baseURL string) ([]option.RequestOption, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingOpenAIKey
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return opts, nil
}

// NewOpenAIClient returns a client for the endpoint described by apiKey and baseURL.
func NewOpenAIClient(apiKey, baseURL string) (openai.Client, error) {
	opts, err := OpenAIOptions(apiKey, baseURL)
	if err != nil {
		return openai.Client{}, err
	}
	return openai.NewClient(opts...), nil
}
