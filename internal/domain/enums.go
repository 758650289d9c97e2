// Package domain defines the core domain models for the intake service.
package domain

// ConversationState represents where a session is in the analysis cycle.
type ConversationState string

const (
	StateInitial   ConversationState = "initial"
	StateFollowUp  ConversationState = "follow_up"
	StateDiagnosis ConversationState = "diagnosis"
)

// ReportCategory classifies a saved report.
type ReportCategory string

const (
	CategoryGeneral   ReportCategory = "General"
	CategoryRadiology ReportCategory = "Radiology"
	CategoryPathology ReportCategory = "Pathology"
)

// Valid reports whether c is one of the known categories.
func (c ReportCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryRadiology, CategoryPathology:
		return true
	}
	return false
}

// InputModality records which kind of input started an analysis.
type InputModality string

const (
	ModalityText     InputModality = "text"
	ModalityDocument InputModality = "document"
	ModalityImage    InputModality = "image"
)

// Language selects the output language of generated text.
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageHindi    Language = "hi"
	LanguageHinglish Language = "hinglish"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageHinglish:
		return true
	}
	return false
}

// Name returns the language name used inside prompts.
func (l Language) Name() string {
	switch l {
	case LanguageHindi:
		return "Hindi"
	case LanguageHinglish:
		return "Hinglish"
	default:
		return "English"
	}
}

// Mode selects the vocabulary register of the diagnosis.
type Mode string

const (
	ModePatient Mode = "patient"
	ModeDoctor  Mode = "doctor"
)

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	return m == ModePatient || m == ModeDoctor
}
