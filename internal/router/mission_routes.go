package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/handler"
	"github.com/iliyamo/takedown-tracker/internal/middleware"
	"github.com/iliyamo/takedown-tracker/internal/model"
)

// RegisterMissions registers the mission board under /v1. The whole
// group is member-only: external accounts never see missions. Within
// the group the service enforces the finer rules (staff may create,
// command roles may delete, only the assignee or an admin may
// complete).
func RegisterMissions(e *echo.Echo, h *handler.MissionHandler, jwtSecret string) {
	g := e.Group(
		"/v1/missions",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleElite, model.RoleSoldier),
	)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/accept", h.Accept)
	g.POST("/:id/complete", h.Complete)
	g.DELETE("/:id", h.Delete)
}
