package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/repository"
)

// StatsHandler aggregates the dashboard numbers across missions,
// reports and users.
type StatsHandler struct {
	Missions *repository.MissionRepo
	Reports  *repository.ReportRepo
	Users    *repository.UserRepo
}

func NewStatsHandler(m *repository.MissionRepo, r *repository.ReportRepo, u *repository.UserRepo) *StatsHandler {
	return &StatsHandler{Missions: m, Reports: r, Users: u}
}

// Overview returns the headline counters for the dashboard.
func (h *StatsHandler) Overview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	mc, err := h.Missions.Counts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	repTotal, repPending, err := h.Reports.Counts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	userTotal, members, err := h.Users.Counts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"missions": echo.Map{
			"total":       mc.Total,
			"pending":     mc.Pending,
			"in_progress": mc.InProgress,
			"completed":   mc.Completed,
		},
		"reports": echo.Map{
			"total":   repTotal,
			"pending": repPending,
		},
		"users": echo.Map{
			"total":   userTotal,
			"members": members,
		},
		"sites_down": mc.SitesDown,
	})
}

// Categories returns mission and report counts broken down by
// category.
func (h *StatsHandler) Categories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	missions, err := h.Missions.CategoryCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	reports, err := h.Reports.CategoryCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"missions": missions,
		"reports":  reports,
	})
}
