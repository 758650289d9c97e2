package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// Engine evaluates the report category policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the given policy. The module must define
// data.report_category.category.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.report_category.category"),
		rego.Module("report_category.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewDefaultEngine prepares DefaultPolicy.
func NewDefaultEngine(ctx context.Context) (*Engine, error) {
	return NewEngine(ctx, DefaultPolicy)
}

// Classify returns the vault category for a report produced from input of
// the given modality.
func (e *Engine) Classify(ctx context.Context, modality domain.InputModality) (domain.ReportCategory, error) {
	input := map[string]interface{}{
		"modality": string(modality),
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.CategoryGeneral, nil
	}

	s, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}
	category := domain.ReportCategory(s)
	if !category.Valid() {
		return "", fmt.Errorf("policy returned unknown category %q", s)
	}
	return category, nil
}

// DefaultPolicy files image analyses under Radiology and document analyses
// under Pathology.
const DefaultPolicy = `
package report_category

default category = "General"

category = "Radiology" {
	input.modality == "image"
} else = "Pathology" {
	input.modality == "document"
}
`
