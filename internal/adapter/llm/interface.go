// Package llm provides the generation clients used by the conversation
// state machine.
package llm

import (
	"context"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// Generator issues a single prompt, optionally with one image, and returns
// the raw generated text. Implementations are stateless per call.
type Generator interface {
	Generate(ctx context.Context, prompt string, image *domain.Image) (string, error)
}

// Sampling holds the fixed generation parameters shared by every backend.
type Sampling struct {
	Temperature       float32
	TopP              float32
	TopK              float32
	MaxOutputTokens   int32
	SystemInstruction string
}

// DefaultSampling favours near-deterministic output with broad coverage.
func DefaultSampling(systemInstruction string) Sampling {
	return Sampling{
		Temperature:       0.1,
		TopP:              0.95,
		TopK:              40,
		MaxOutputTokens:   8192,
		SystemInstruction: systemInstruction,
	}
}

// Ensure implementations satisfy Generator.
var (
	_ Generator = (*GeminiClient)(nil)
	_ Generator = (*OpenAIClient)(nil)
	_ Generator = (*MockClient)(nil)
)
