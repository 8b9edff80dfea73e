package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/badge"
	"github.com/iliyamo/takedown-tracker/internal/repository"
)

// BadgeHandler serves the badge table and per-user earned sets.
type BadgeHandler struct {
	Users *repository.UserRepo
}

func NewBadgeHandler(u *repository.UserRepo) *BadgeHandler {
	return &BadgeHandler{Users: u}
}

// Table returns the full badge catalogue.
func (h *BadgeHandler) Table(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"badges": badge.Table})
}

// ForUser returns the badges a user has earned, computed from their
// current counters.
func (h *BadgeHandler) ForUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  u.ID,
		"username": u.Username,
		"badges":   badge.Earned(u),
	})
}
