// Package llm provides the Gemini client abstraction used by the evaluation
// stages. It exposes plain text generation and inline-media generation so the
// transcription stage can send the recorded clip in the same round trip as
// its instructions.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers. Each call names the model so
// stages can be pointed at different models independently.
type Client interface {
	// GenerateText generates text content from a prompt
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	// GenerateWithMedia generates text content from a prompt plus an inline
	// media blob (audio or video bytes with their MIME type)
	GenerateWithMedia(ctx context.Context, model, prompt, mimeType string, data []byte) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash-lite"

// generativeModel resolves the model name and applies shared settings.
func (c *GeminiClient) generativeModel(name string) *genai.GenerativeModel {
	if name == "" {
		name = DefaultModel
	}
	model := c.client.GenerativeModel(name)
	model.SetTemperature(0.2) // Low temperature for consistent output
	return model
}

// GenerateText generates text content from a prompt
func (c *GeminiClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.generativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateWithMedia generates text content from a prompt and an inline blob
func (c *GeminiClient) GenerateWithMedia(ctx context.Context, model, prompt, mimeType string, data []byte) (string, error) {
	resp, err := c.generativeModel(model).GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
