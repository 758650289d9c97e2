package domain

// Intake is the user input that starts an analysis cycle.
type Intake struct {
	Symptoms    string
	Medications string
	Image       *Image
	Document    *Document
}

// SignupRequest is the body of POST /v1/accounts.
type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the body of POST /v1/sessions.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}

// PreferencesRequest updates the language and mode of a session.
type PreferencesRequest struct {
	Language Language `json:"language,omitempty"`
	Mode     Mode     `json:"mode,omitempty"`
}

// AnswerRequest selects an option for the current follow-up question.
type AnswerRequest struct {
	Option string `json:"option"`
}

// SubmitResponse is returned when an analysis has been accepted.
type SubmitResponse struct {
	Session         Session `json:"session"`
	DocumentPreview string  `json:"document_preview,omitempty"`
}

// SessionEvent is pushed to WebSocket subscribers after every transition.
type SessionEvent struct {
	Type    string  `json:"type"`
	Ts      int64   `json:"ts"`
	Session Session `json:"session"`
}

// SessionEventType is the only event type currently pushed.
const SessionEventType = "session_update"
