package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client   *genai.Client
	model    string
	sampling Sampling
}

// NewGeminiClient creates a Gemini-backed generator. baseURL is optional and
// only used to point the client at a proxy or a test server.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, sampling Sampling) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required: %w", domain.ErrGenerationUnavailable)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %v: %w", err, domain.ErrGenerationUnavailable)
	}

	return &GeminiClient{client: client, model: model, sampling: sampling}, nil
}

// Generate sends the prompt and optional image as a single user turn.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if image != nil && len(image.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temp := c.sampling.Temperature
	topP := c.sampling.TopP
	topK := c.sampling.TopK
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: c.sampling.MaxOutputTokens,
	}
	if c.sampling.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(c.sampling.SystemInstruction, genai.RoleUser)
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %v: %w", err, domain.ErrGenerationFailure)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text: %w", domain.ErrGenerationFailure)
	}
	return text, nil
}
