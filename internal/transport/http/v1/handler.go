// Package v1 provides the HTTP handlers of the intake API.
package v1

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/hub"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service        *service.Service
	ws             *hub.Handler
	maxUploadBytes int64
}

// NewHandler creates a new handler. ws may be nil to disable the push
// channel.
func NewHandler(svc *service.Service, ws *hub.Handler, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        svc,
		ws:             ws,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Accounts and login
	e.POST("/v1/accounts", h.CreateAccount)
	e.POST("/v1/sessions", h.Login)

	// Current session
	e.GET("/v1/session", h.GetSession)
	e.DELETE("/v1/session", h.Logout)
	e.PUT("/v1/session/preferences", h.UpdatePreferences)
	e.POST("/v1/session/analysis", h.SubmitAnalysis)
	e.POST("/v1/session/follow-up/answer", h.AnswerFollowUp)
	e.POST("/v1/session/follow-up/skip", h.SkipFollowUp)
	e.POST("/v1/session/reset", h.Reset)
	e.POST("/v1/session/report", h.SaveReport)
	if h.ws != nil {
		e.GET("/v1/session/ws", h.ws.Serve)
	}

	// Health vault
	e.GET("/v1/reports", h.ListReports)
	e.GET("/v1/reports/:report_id", h.GetReport)
	e.DELETE("/v1/reports/:report_id", h.DeleteReport)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	generation := "available"
	if !h.service.GenerationAvailable() {
		generation = "unavailable"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":     "healthy",
		"version":    "0.1.0",
		"generation": generation,
	})
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// writeError maps domain errors onto status codes.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrEmptySubmission),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidPreference):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoResult),
		errors.Is(err, domain.ErrGenerationInFlight):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrGenerationUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
