package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/middleware"
	"github.com/iliyamo/takedown-tracker/internal/service"
)

// ReportHandler exposes the external report intake and its review
// actions.
type ReportHandler struct {
	Reports *service.ReportService
}

func NewReportHandler(s *service.ReportService) *ReportHandler {
	return &ReportHandler{Reports: s}
}

func (h *ReportHandler) Submit(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var in service.ReportInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if in.Title == "" || in.TargetURL == "" || in.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/target_url/category required"})
	}
	rep, err := h.Reports.Submit(c.Request().Context(), actor, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, rep)
}

func (h *ReportHandler) List(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reps, err := h.Reports.List(c.Request().Context(), actor, c.QueryParam("status"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": reps, "count": len(reps)})
}

// Accept converts the report into a mission and returns the new
// mission.
func (h *ReportHandler) Accept(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Reports.Accept(c.Request().Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"mission": m})
}

func (h *ReportHandler) Reject(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Reports.Reject(c.Request().Context(), actor, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "rejected"})
}
