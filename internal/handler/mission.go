package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/middleware"
	"github.com/iliyamo/takedown-tracker/internal/service"
)

// MissionHandler exposes the mission board over HTTP. All business
// rules live in the service; this layer only binds and translates.
type MissionHandler struct {
	Missions *service.MissionService
}

func NewMissionHandler(s *service.MissionService) *MissionHandler {
	return &MissionHandler{Missions: s}
}

func (h *MissionHandler) Create(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var in service.MissionInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if in.Title == "" || in.TargetURL == "" || in.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/target_url/category required"})
	}
	m, err := h.Missions.Create(c.Request().Context(), actor, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *MissionHandler) List(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ms, err := h.Missions.List(c.Request().Context(), actor, c.QueryParam("status"), c.QueryParam("category"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"missions": ms, "count": len(ms)})
}

func (h *MissionHandler) Get(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Missions.Get(c.Request().Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MissionHandler) Accept(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Missions.Accept(c.Request().Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MissionHandler) Complete(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Missions.Complete(c.Request().Context(), actor, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MissionHandler) Delete(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Missions.Delete(c.Request().Context(), actor, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
