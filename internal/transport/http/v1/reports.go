package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// SaveReport stores the completed diagnosis in the health vault.
// POST /v1/session/report
func (h *Handler) SaveReport(c echo.Context) error {
	report, err := h.service.SaveReport(c.Request().Context(), bearerToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, report)
}

// ListReports lists the caller's reports, newest first.
// GET /v1/reports?category=
func (h *Handler) ListReports(c echo.Context) error {
	category := domain.ReportCategory(c.QueryParam("category"))
	if category == "All" {
		category = ""
	}

	reports, err := h.service.ListReports(c.Request().Context(), bearerToken(c), category)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": reports,
	})
}

// GetReport returns one report.
// GET /v1/reports/:report_id
func (h *Handler) GetReport(c echo.Context) error {
	report, err := h.service.GetReport(c.Request().Context(), bearerToken(c), c.Param("report_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// DeleteReport deletes one of the caller's reports. Deleting someone else's
// report is not an error; deleted is false.
// DELETE /v1/reports/:report_id
func (h *Handler) DeleteReport(c echo.Context) error {
	deleted, err := h.service.DeleteReport(c.Request().Context(), bearerToken(c), c.Param("report_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": deleted})
}
