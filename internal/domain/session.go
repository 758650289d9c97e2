package domain

import "time"

// MaxFollowUps bounds the number of answered follow-up questions per cycle.
const MaxFollowUps = 4

// Image is an uploaded image forwarded to the generation service.
type Image struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename,omitempty"`
}

// Document is an uploaded document whose text enriches the symptoms.
type Document struct {
	Data     []byte
	MimeType string
	Filename string
}

// FollowUpQuestion is one generated clarifying question.
type FollowUpQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// FollowUpAnswer is an answered question. Order is answer order.
type FollowUpAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnalysisData is the data accumulated during one diagnosis cycle.
type AnalysisData struct {
	Symptoms        string           `json:"symptoms"`
	Medications     string           `json:"medications"`
	Image           *Image           `json:"image,omitempty"`
	Modality        InputModality    `json:"modality,omitempty"`
	FollowUpAnswers []FollowUpAnswer `json:"follow_up_answers"`
	Result          string           `json:"result,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

// AnswerFor returns the answer recorded for question, if any.
func (a *AnalysisData) AnswerFor(question string) (string, bool) {
	for _, fa := range a.FollowUpAnswers {
		if fa.Question == question {
			return fa.Answer, true
		}
	}
	return "", false
}

// Session is the per-login conversation context. It is owned by the session
// registry and must only be mutated while holding the registry's lock for it.
type Session struct {
	SessionID       string            `json:"session_id"`
	AccountID       string            `json:"account_id"`
	Username        string            `json:"username"`
	Language        Language          `json:"language"`
	Mode            Mode              `json:"mode"`
	State           ConversationState `json:"conversation_state"`
	Analysis        AnalysisData      `json:"analysis_data"`
	FollowUpCount   int               `json:"follow_up_count"`
	CurrentQuestion *FollowUpQuestion `json:"current_question,omitempty"`
	Pending         bool              `json:"pending"`
	Notice          string            `json:"notice,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Snapshot returns a deep copy safe to hand out after the lock is released.
func (s *Session) Snapshot() Session {
	cp := *s
	if s.Analysis.FollowUpAnswers != nil {
		cp.Analysis.FollowUpAnswers = make([]FollowUpAnswer, len(s.Analysis.FollowUpAnswers))
		copy(cp.Analysis.FollowUpAnswers, s.Analysis.FollowUpAnswers)
	}
	if s.Analysis.Image != nil {
		img := *s.Analysis.Image
		cp.Analysis.Image = &img
	}
	if s.Analysis.CompletedAt != nil {
		t := *s.Analysis.CompletedAt
		cp.Analysis.CompletedAt = &t
	}
	if s.CurrentQuestion != nil {
		q := FollowUpQuestion{
			Question: s.CurrentQuestion.Question,
			Options:  append([]string(nil), s.CurrentQuestion.Options...),
		}
		cp.CurrentQuestion = &q
	}
	return cp
}
