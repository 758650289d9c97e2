package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

type followUpResponse struct {
	Questions *[]domain.FollowUpQuestion `json:"questions"`
}

// ParseQuestions decodes a follow-up response of the exact shape
// {"questions":[{"question":...,"options":[...]}]}. A single surrounding
// markdown code fence is stripped; anything else around the JSON, unknown
// fields, or an invalid question is an ErrMalformedFollowUp.
func ParseQuestions(raw string) ([]domain.FollowUpQuestion, error) {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return nil, fmt.Errorf("empty response: %w", domain.ErrMalformedFollowUp)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()

	var resp followUpResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode follow-up json: %v: %w", err, domain.ErrMalformedFollowUp)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing content after follow-up json: %w", domain.ErrMalformedFollowUp)
	}
	if resp.Questions == nil {
		return nil, fmt.Errorf("missing questions field: %w", domain.ErrMalformedFollowUp)
	}

	questions := *resp.Questions
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions returned: %w", domain.ErrMalformedFollowUp)
	}
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %d: %v: %w", i, err, domain.ErrMalformedFollowUp)
		}
	}
	return questions, nil
}

func validateQuestion(q domain.FollowUpQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("expected at least 2 options, got %d", len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("empty option")
		}
		if seen[opt] {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = true
	}
	return nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	// drop an info string such as "json" on the opening line
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(inner[:nl]); !strings.ContainsAny(tag, "{[") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
