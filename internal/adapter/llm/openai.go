package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient generates text with the OpenAI chat completion API or any
// compatible endpoint (LiteLLM, vLLM).
type OpenAIClient struct {
	client   *openai.Client
	model    string
	sampling Sampling
}

// NewOpenAIClient creates an OpenAI-backed generator. The chat completion
// API has no top-k parameter, so Sampling.TopK is not sent.
func NewOpenAIClient(apiKey, baseURL, model string, sampling Sampling) (*OpenAIClient, error) {
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("openai api key or base url is required: %w", domain.ErrGenerationUnavailable)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		sampling: sampling,
	}, nil
}

// Generate sends the system instruction and a single user turn.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if c.sampling.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.sampling.SystemInstruction,
		})
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if image != nil && len(image.Data) > 0 {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL(image),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		user.Content = prompt
	}
	messages = append(messages, user)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.sampling.Temperature,
		TopP:        c.sampling.TopP,
		MaxTokens:   int(c.sampling.MaxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %v: %w", err, domain.ErrGenerationFailure)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned no content: %w", domain.ErrGenerationFailure)
	}
	return resp.Choices[0].Message.Content, nil
}

func dataURL(image *domain.Image) string {
	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
}
