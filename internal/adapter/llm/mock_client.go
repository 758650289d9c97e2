package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// MockClient is a deterministic Generator for local runs and tests.
type MockClient struct{}

// NewMockClient creates a new mock generator.
func NewMockClient() *MockClient {
	return &MockClient{}
}

const mockQuestions = `{
  "questions": [
    {"question": "When did your symptoms start?", "options": ["Today", "2-3 days ago", "About a week ago", "More than a week ago"]},
    {"question": "How severe are your symptoms?", "options": ["Mild", "Moderate", "Severe"]},
    {"question": "Does anything make it better or worse?", "options": ["Rest helps", "Activity makes it worse", "Nothing changes it"]},
    {"question": "Do you have any other symptoms?", "options": ["Fever", "Body aches", "Nausea", "None"]}
  ]
}`

// Generate returns canned follow-up questions when the prompt asks for the
// questions JSON, otherwise a short structured analysis.
func (m *MockClient) Generate(ctx context.Context, prompt string, image *domain.Image) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if strings.Contains(prompt, `"questions"`) {
		return mockQuestions, nil
	}

	var b strings.Builder
	b.WriteString("[MOCK] 1. DIFFERENTIAL DIAGNOSIS\n- Viral upper respiratory infection (Medium)\n\n")
	if image != nil {
		fmt.Fprintf(&b, "4. LABORATORY/IMAGING FINDINGS ANALYSIS\n- Received one %s image.\n\n", image.MimeType)
	}
	b.WriteString("7. RED FLAGS AND URGENT CARE INDICATORS\n- Difficulty breathing, chest pain.\n\n")
	b.WriteString("⚠️ DISCLAIMER: This analysis is for educational purposes only and should not replace professional medical consultation. Please consult a qualified healthcare provider for proper diagnosis and treatment.")
	return b.String(), nil
}
