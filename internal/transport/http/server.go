// Package http provides the HTTP server of the intake service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/hub"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/service"
	v1 "github.com/Drmohdfaizan/Medical-Ai-App/internal/transport/http/v1"
)

// NewServer creates and configures the public HTTP server.
func NewServer(svc *service.Service, ws *hub.Handler, maxUploadBytes int64) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, ws, maxUploadBytes)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	return e
}
