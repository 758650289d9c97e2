package domain

import "time"

// Account is a registered user. PasswordHash is never serialized.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Report is a persisted snapshot of one completed diagnosis cycle.
type Report struct {
	ReportID  string         `json:"report_id"`
	AccountID string         `json:"account_id"`
	Category  ReportCategory `json:"category"`
	Symptoms  string         `json:"symptoms"`
	Diagnosis string         `json:"diagnosis"`
	CreatedAt time.Time      `json:"created_at"`
}
