package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maay-app/maay-api/internal/catalog"
	appctx "github.com/maay-app/maay-api/internal/context"
	"github.com/maay-app/maay-api/internal/progression"
)

type (
	LessonsHandler struct {
		engine  *progression.Engine
		catalog *catalog.Catalog
		log     *slog.Logger
	}

	completeLessonRequest struct {
		Score    int `json:"score" validate:"gte=0"`
		XPEarned int `json:"xp_earned" validate:"required,gt=0"`
	}

	reviewLessonRequest struct {
		LessonID string `json:"lesson_id" validate:"required,min=1"`
	}
)

func NewLessonsHandler(engine *progression.Engine, cat *catalog.Catalog, log *slog.Logger) *LessonsHandler {
	return &LessonsHandler{
		engine:  engine,
		catalog: cat,
		log:     log,
	}
}

// List returns every unit with the user's completion and lock state merged in.
func (h *LessonsHandler) List(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	units, err := h.engine.Overview(c.Request().Context(), user.ID)
	if err != nil {
		return writeDomainError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, units)
}

// Get returns the full lesson including its exercises.
func (h *LessonsHandler) Get(c echo.Context) error {
	lesson, ok := h.catalog.Lesson(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "lesson not found"})
	}

	return c.JSON(http.StatusOK, lesson)
}

func (h *LessonsHandler) Complete(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	var req completeLessonRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	result, err := h.engine.CompleteLesson(c.Request().Context(), user.ID, c.Param("id"), req.Score, req.XPEarned)
	if err != nil {
		return writeDomainError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"xp_earned": result.XPEarned,
		"total_xp":  result.TotalXP,
		"level":     result.Level,
	})
}

func (h *LessonsHandler) Review(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	var req reviewLessonRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	lives, err := h.engine.ReviewLesson(c.Request().Context(), user.ID, req.LessonID)
	if err != nil {
		return writeDomainError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"lives":   lives,
		"message": "You earned back one heart!",
	})
}

func (h *LessonsHandler) LoseLife(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	lives, err := h.engine.LoseLife(c.Request().Context(), user.ID)
	if err != nil {
		return writeDomainError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"lives":   lives,
	})
}
