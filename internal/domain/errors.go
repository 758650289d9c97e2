package domain

import "errors"

var (
	// ErrGenerationUnavailable means the generation client could not be
	// configured; analysis is blocked for the session.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	// ErrGenerationFailure is a call-time generation error.
	ErrGenerationFailure = errors.New("generation failed")
	// ErrMalformedFollowUp means the follow-up response did not match the
	// expected JSON shape.
	ErrMalformedFollowUp = errors.New("malformed follow-up response")
	// ErrDocumentExtraction means document text could not be read.
	ErrDocumentExtraction = errors.New("document extraction failed")

	ErrDuplicateAccount   = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAccount     = errors.New("invalid account details")

	ErrEmptySubmission    = errors.New("symptoms, image or document required")
	ErrInvalidTransition  = errors.New("action not allowed in current state")
	ErrInvalidOption      = errors.New("option does not belong to the current question")
	ErrNoResult           = errors.New("no completed diagnosis to save")
	ErrGenerationInFlight = errors.New("a generation request is already in progress")

	ErrSessionNotFound   = errors.New("session not found")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCategory   = errors.New("unknown report category")
	ErrInvalidPreference = errors.New("unknown language or mode")
)
