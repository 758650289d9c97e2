package llm

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

const (
	// EnvDocProMode is the environment variable name for mode selection.
	EnvDocProMode = "DOCPRO_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// Options selects and configures a generation backend.
type Options struct {
	Provider      string // gemini, openai or mock
	Model         string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Sampling      Sampling
}

// NewGenerator creates a Generator based on DOCPRO_MODE and opts.Provider.
// If DOCPRO_MODE=MOCK, returns a MockClient regardless of the provider.
// Construction failures wrap domain.ErrGenerationUnavailable.
func NewGenerator(ctx context.Context, opts Options) (Generator, error) {
	if os.Getenv(EnvDocProMode) == ModeMock || opts.Provider == "mock" {
		log.Println("mock mode detected, using mock generation client")
		return NewMockClient(), nil
	}

	switch opts.Provider {
	case "", "gemini":
		client, err := NewGeminiClient(ctx, opts.GeminiAPIKey, opts.Model, "", opts.Sampling)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "openai":
		client, err := NewOpenAIClient(opts.OpenAIAPIKey, opts.OpenAIBaseURL, opts.Model, opts.Sampling)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q: %w", opts.Provider, domain.ErrGenerationUnavailable)
	}
}
