// Package conversation implements the intake state machine: initial,
// follow-up questioning, diagnosis.
package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/adapter/document"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/adapter/llm"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/prompt"
)

const (
	// ExcerptLength is the number of symptom characters stored with a report.
	ExcerptLength = 200

	labReportSeparator  = "\n\nLab Report Content:\n"
	documentErrorPrefix = "Error reading PDF: "
	analysisErrorPrefix = "Error during analysis: "
)

// ImageNormalizer prepares an uploaded image for the vision model.
type ImageNormalizer interface {
	Normalize(img *domain.Image) (*domain.Image, error)
}

// Classifier picks the vault category of a report.
type Classifier interface {
	Classify(ctx context.Context, modality domain.InputModality) (domain.ReportCategory, error)
}

// ReportDraft is a completed analysis ready to be persisted.
type ReportDraft struct {
	Category  domain.ReportCategory
	Symptoms  string
	Diagnosis string
}

// Machine drives a single session through one analysis cycle at a time.
// It holds no session state; callers serialize access to each Session.
type Machine struct {
	generator  llm.Generator
	extractor  document.Extractor
	images     ImageNormalizer
	classifier Classifier
	now        func() time.Time
}

// NewMachine creates a Machine. A nil generator blocks every submission
// with domain.ErrGenerationUnavailable.
func NewMachine(generator llm.Generator, extractor document.Extractor, images ImageNormalizer, classifier Classifier) *Machine {
	return &Machine{
		generator:  generator,
		extractor:  extractor,
		images:     images,
		classifier: classifier,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for timestamps.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Available reports whether a generation backend is configured.
func (m *Machine) Available() bool {
	return m.generator != nil
}

// Submit starts a new analysis cycle and moves the session to follow_up.
// It returns the extracted document text, if any. Submitting from diagnosis
// implicitly starts a new cycle.
func (m *Machine) Submit(ctx context.Context, sess *domain.Session, in domain.Intake) (string, error) {
	if sess.State == domain.StateFollowUp {
		return "", fmt.Errorf("submit in %s: %w", sess.State, domain.ErrInvalidTransition)
	}
	if in.Document != nil && len(in.Document.Data) == 0 {
		in.Document = nil
	}
	if in.Image != nil && len(in.Image.Data) == 0 {
		in.Image = nil
	}
	if strings.TrimSpace(in.Symptoms) == "" && in.Image == nil && in.Document == nil {
		return "", domain.ErrEmptySubmission
	}
	if m.generator == nil {
		return "", domain.ErrGenerationUnavailable
	}

	symptoms := in.Symptoms
	var documentText string
	if in.Document != nil {
		documentText = m.extractText(ctx, in.Document)
		symptoms += labReportSeparator + documentText
	}

	img := in.Image
	if img != nil && m.images != nil {
		normalized, err := m.images.Normalize(img)
		if err != nil {
			log.Printf("WARN: session %s: image normalisation failed, sending original: %v", sess.SessionID, err)
		} else {
			img = normalized
		}
	}

	sess.Analysis = domain.AnalysisData{
		Symptoms:        symptoms,
		Medications:     in.Medications,
		Image:           img,
		Modality:        modalityOf(in),
		FollowUpAnswers: []domain.FollowUpAnswer{},
	}
	sess.FollowUpCount = 0
	sess.CurrentQuestion = nil
	sess.Notice = ""
	m.transition(sess, domain.StateFollowUp)
	return documentText, nil
}

func (m *Machine) extractText(ctx context.Context, doc *domain.Document) string {
	if m.extractor == nil {
		return documentErrorPrefix + "no document extractor configured"
	}
	text, err := m.extractor.Extract(ctx, doc)
	if err != nil {
		return documentErrorPrefix + err.Error()
	}
	return text
}

func modalityOf(in domain.Intake) domain.InputModality {
	switch {
	case in.Image != nil:
		return domain.ModalityImage
	case in.Document != nil:
		return domain.ModalityDocument
	default:
		return domain.ModalityText
	}
}

// Advance is the entry action of follow_up. It either selects the next
// question from a freshly generated batch or moves the session on to
// diagnosis when the loop is exhausted or generation yields nothing usable.
func (m *Machine) Advance(ctx context.Context, sess *domain.Session) error {
	if sess.State != domain.StateFollowUp {
		return fmt.Errorf("advance in %s: %w", sess.State, domain.ErrInvalidTransition)
	}
	if sess.CurrentQuestion != nil {
		return nil
	}
	if sess.FollowUpCount >= domain.MaxFollowUps {
		m.transition(sess, domain.StateDiagnosis)
		return nil
	}
	if m.generator == nil {
		return domain.ErrGenerationUnavailable
	}

	raw, err := m.generator.Generate(ctx, prompt.FollowUp(sess.Analysis.Symptoms, sess.Language.Name()), nil)
	if err != nil {
		m.skipToDiagnosis(sess, err)
		return nil
	}
	questions, err := prompt.ParseQuestions(raw)
	if err != nil {
		m.skipToDiagnosis(sess, err)
		return nil
	}
	if len(questions) <= sess.FollowUpCount {
		m.skipToDiagnosis(sess, fmt.Errorf("only %d questions returned: %w", len(questions), domain.ErrMalformedFollowUp))
		return nil
	}

	q := questions[sess.FollowUpCount]
	sess.CurrentQuestion = &q
	sess.UpdatedAt = m.now()
	return nil
}

func (m *Machine) skipToDiagnosis(sess *domain.Session, cause error) {
	log.Printf("WARN: session %s: follow-up generation unusable, moving to diagnosis: %v", sess.SessionID, cause)
	sess.Notice = "Could not generate follow-up questions. Proceeding to analysis."
	sess.CurrentQuestion = nil
	m.transition(sess, domain.StateDiagnosis)
}

// Answer records the option chosen for the current question.
func (m *Machine) Answer(sess *domain.Session, option string) error {
	if sess.State != domain.StateFollowUp || sess.CurrentQuestion == nil {
		return fmt.Errorf("answer in %s: %w", sess.State, domain.ErrInvalidTransition)
	}
	if !contains(sess.CurrentQuestion.Options, option) {
		return fmt.Errorf("%q: %w", option, domain.ErrInvalidOption)
	}

	sess.Analysis.FollowUpAnswers = append(sess.Analysis.FollowUpAnswers, domain.FollowUpAnswer{
		Question: sess.CurrentQuestion.Question,
		Answer:   option,
	})
	sess.FollowUpCount++
	sess.CurrentQuestion = nil
	sess.Notice = ""
	sess.UpdatedAt = m.now()
	return nil
}

func contains(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}

// Skip leaves the follow-up loop early.
func (m *Machine) Skip(sess *domain.Session) error {
	if sess.State != domain.StateFollowUp {
		return fmt.Errorf("skip in %s: %w", sess.State, domain.ErrInvalidTransition)
	}
	sess.CurrentQuestion = nil
	sess.Notice = ""
	m.transition(sess, domain.StateDiagnosis)
	return nil
}

// Diagnose is the entry action of diagnosis. It runs the final analysis
// once per cycle; generation errors become the inline result text.
func (m *Machine) Diagnose(ctx context.Context, sess *domain.Session) error {
	if sess.State != domain.StateDiagnosis {
		return fmt.Errorf("diagnose in %s: %w", sess.State, domain.ErrInvalidTransition)
	}
	if sess.Analysis.CompletedAt != nil {
		return nil
	}

	a := &sess.Analysis
	text := prompt.Diagnosis(a.Symptoms, prompt.FormatAnswers(a.FollowUpAnswers), a.Medications, sess.Mode, sess.Language)

	var result string
	if m.generator == nil {
		result = analysisErrorPrefix + domain.ErrGenerationUnavailable.Error()
	} else if out, err := m.generator.Generate(ctx, text, a.Image); err != nil {
		log.Printf("ERROR: session %s: diagnosis generation failed: %v", sess.SessionID, err)
		result = analysisErrorPrefix + err.Error()
	} else {
		result = out
	}

	now := m.now()
	a.Result = result
	a.CompletedAt = &now
	sess.UpdatedAt = now
	return nil
}

// Report builds the vault entry for a completed diagnosis. The session does
// not change state.
func (m *Machine) Report(ctx context.Context, sess *domain.Session) (*ReportDraft, error) {
	if sess.State != domain.StateDiagnosis || sess.Analysis.Result == "" {
		return nil, domain.ErrNoResult
	}

	category := domain.CategoryGeneral
	if m.classifier != nil {
		c, err := m.classifier.Classify(ctx, sess.Analysis.Modality)
		if err != nil {
			return nil, fmt.Errorf("failed to classify report: %w", err)
		}
		category = c
	}

	return &ReportDraft{
		Category:  category,
		Symptoms:  Excerpt(sess.Analysis.Symptoms),
		Diagnosis: sess.Analysis.Result,
	}, nil
}

// Excerpt returns the first ExcerptLength characters of symptoms.
func Excerpt(symptoms string) string {
	runes := []rune(symptoms)
	if len(runes) <= ExcerptLength {
		return symptoms
	}
	return string(runes[:ExcerptLength])
}

// Reset discards the current cycle. Allowed from any state.
func (m *Machine) Reset(sess *domain.Session) {
	sess.Analysis = domain.AnalysisData{FollowUpAnswers: []domain.FollowUpAnswer{}}
	sess.FollowUpCount = 0
	sess.CurrentQuestion = nil
	sess.Notice = ""
	m.transition(sess, domain.StateInitial)
}

func (m *Machine) transition(sess *domain.Session, to domain.ConversationState) {
	sess.State = to
	sess.UpdatedAt = m.now()
}
