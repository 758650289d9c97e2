package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// CreateAccount signs a user up.
// POST /v1/accounts
func (h *Handler) CreateAccount(c echo.Context) error {
	var req domain.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	account, err := h.service.CreateAccount(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, account)
}

// Login opens a session.
// POST /v1/sessions
func (h *Handler) Login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username and password are required"})
	}

	resp, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Logout drops the caller's session.
// DELETE /v1/session
func (h *Handler) Logout(c echo.Context) error {
	if err := h.service.Logout(bearerToken(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
