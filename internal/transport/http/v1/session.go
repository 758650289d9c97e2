package v1

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// GetSession returns the current snapshot. Clients without a socket poll
// this until pending is false.
// GET /v1/session
func (h *Handler) GetSession(c echo.Context) error {
	snap, err := h.service.Session(bearerToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// UpdatePreferences sets the language and mode.
// PUT /v1/session/preferences
func (h *Handler) UpdatePreferences(c echo.Context) error {
	var req domain.PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	snap, err := h.service.SetPreferences(bearerToken(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// SubmitAnalysis accepts symptoms, medications and optional image and
// document uploads as multipart form data.
// POST /v1/session/analysis
func (h *Handler) SubmitAnalysis(c echo.Context) error {
	intake := domain.Intake{
		Symptoms:    c.FormValue("symptoms"),
		Medications: c.FormValue("medications"),
	}

	data, mimeType, filename, rejected := h.readUpload(c, "image")
	if rejected != nil {
		return rejected.write(c)
	}
	if data != nil {
		intake.Image = &domain.Image{Data: data, MimeType: mimeType, Filename: filename}
	}

	data, mimeType, filename, rejected = h.readUpload(c, "document")
	if rejected != nil {
		return rejected.write(c)
	}
	if data != nil {
		intake.Document = &domain.Document{Data: data, MimeType: mimeType, Filename: filename}
	}

	resp, err := h.service.SubmitAnalysis(c.Request().Context(), bearerToken(c), intake)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusAccepted, resp)
}

// uploadError is a rejected upload that has not been written yet.
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) write(c echo.Context) error {
	return c.JSON(e.status, map[string]string{"error": e.message})
}

// readUpload returns the bytes of an optional form file.
func (h *Handler) readUpload(c echo.Context, field string) ([]byte, string, string, *uploadError) {
	fh, err := c.FormFile(field)
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil, "", "", nil
	}
	if err != nil {
		return nil, "", "", &uploadError{http.StatusBadRequest, fmt.Sprintf("invalid %s upload", field)}
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return nil, "", "", &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds %d bytes", field, h.maxUploadBytes)}
	}

	data, err := readFormFile(fh)
	if err != nil {
		return nil, "", "", &uploadError{http.StatusBadRequest, fmt.Sprintf("failed to read %s", field)}
	}
	if len(data) == 0 {
		return nil, "", "", nil
	}

	mimeType := fh.Header.Get(echo.HeaderContentType)
	if mimeType == "" || mimeType == echo.MIMEOctetStream {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, fh.Filename, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AnswerFollowUp selects an option for the current question.
// POST /v1/session/follow-up/answer
func (h *Handler) AnswerFollowUp(c echo.Context) error {
	var req domain.AnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Option == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "option is required"})
	}

	snap, err := h.service.AnswerFollowUp(bearerToken(c), req.Option)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusAccepted, snap)
}

// SkipFollowUp jumps straight to the diagnosis.
// POST /v1/session/follow-up/skip
func (h *Handler) SkipFollowUp(c echo.Context) error {
	snap, err := h.service.SkipFollowUp(bearerToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusAccepted, snap)
}

// Reset starts a new analysis.
// POST /v1/session/reset
func (h *Handler) Reset(c echo.Context) error {
	snap, err := h.service.Reset(bearerToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}
