// Package handler implements the HTTP layer: thin Echo handlers that
// bind requests, call the services/repositories and translate business
// outcomes onto status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/service"
)

// respondServiceError maps the service error taxonomy onto HTTP.
// Anything outside the taxonomy is a store/internal failure and
// surfaces as 500 without leaking details.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid state"})
	case errors.Is(err, service.ErrTargetOnline):
		return c.JSON(http.StatusPreconditionFailed, echo.Map{"error": "target is still online, mission cannot be completed"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
