package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/model"
	"github.com/iliyamo/takedown-tracker/internal/repository"
)

const rankingLimit = 50

// UserHandler exposes member administration and the scoreboard.
type UserHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewUserHandler(u *repository.UserRepo, t *repository.TokenRepo) *UserHandler {
	return &UserHandler{Users: u, Tokens: t}
}

// List returns every registered user. Admin-gated at the router.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "count": len(users)})
}

// Ranking returns the member scoreboard ordered by rank points.
// External accounts are excluded; any authenticated user may view it.
func (h *UserHandler) Ranking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.Ranking(ctx, rankingLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ranking": users})
}

type updateUserReq struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Update changes a user's username and/or role. Admin-gated at the
// router.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Username == "" && req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.Role != "" && !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Users.UpdateProfile(ctx, id, req.Username, req.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete removes a user account. Admin-gated at the router. Scores the
// user earned for others (completed missions etc.) stay as they are.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Users.Delete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	// Kill the account's sessions too; without this its refresh tokens
	// would keep minting access tokens until they expire.
	if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
		log.Printf("revoke tokens for deleted user %d: %v", id, err)
	}
	return c.NoContent(http.StatusNoContent)
}
