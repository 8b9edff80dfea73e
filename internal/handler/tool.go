package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/middleware"
	"github.com/iliyamo/takedown-tracker/internal/model"
	"github.com/iliyamo/takedown-tracker/internal/repository"
)

// ToolHandler manages the shared tool library: link entries and
// uploaded files.
type ToolHandler struct {
	Tools     *repository.ToolRepo
	UploadDir string
}

func NewToolHandler(t *repository.ToolRepo, uploadDir string) *ToolHandler {
	return &ToolHandler{Tools: t, UploadDir: uploadDir}
}

type createToolReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
}

// Create adds a link tool. Admin-gated at the router.
func (h *ToolHandler) Create(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createToolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.URL = strings.TrimSpace(req.URL)
	if req.Name == "" || req.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/url required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := model.Tool{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		URL:         &req.URL,
		IsFile:      false,
		CreatedBy:   actor.ID,
	}
	if err := h.Tools.Create(ctx, &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tool failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Upload stores a file tool on disk and registers it. Admin-gated at
// the router. The stored name is prefixed with the tool row's insert
// time so uploads never collide.
func (h *ToolHandler) Upload(c echo.Context) error {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = fh.Filename
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	base := filepath.Base(fh.Filename)
	stored := fmt.Sprintf("%d_%s", time.Now().UnixNano(), base)
	dst := filepath.Join(h.UploadDir, stored)

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable upload"})
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := model.Tool{
		Name:        name,
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		FilePath:    &dst,
		FileName:    &base,
		IsFile:      true,
		CreatedBy:   actor.ID,
	}
	if err := h.Tools.Create(ctx, &t); err != nil {
		os.Remove(dst)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tool failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns tools, optionally filtered by category. Member-gated at
// the router.
func (h *ToolHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tools, err := h.Tools.List(ctx, c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tools": tools, "count": len(tools)})
}

// Download streams a file tool back with its original filename.
func (h *ToolHandler) Download(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tool not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !t.IsFile || t.FilePath == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tool has no file"})
	}
	name := filepath.Base(*t.FilePath)
	if t.FileName != nil {
		name = *t.FileName
	}
	return c.Attachment(*t.FilePath, name)
}

// Delete removes a tool and, for file tools, its stored file.
// Admin-gated at the router. A leftover file after a failed unlink is
// only logged; the row is already gone.
func (h *ToolHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tool not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ok, err := h.Tools.Delete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tool not found"})
	}
	if t.IsFile && t.FilePath != nil {
		if err := os.Remove(*t.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("remove tool file %s: %v", *t.FilePath, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
