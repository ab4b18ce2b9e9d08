package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	appctx "github.com/maay-app/maay-api/internal/context"
	"github.com/maay-app/maay-api/internal/dal"
	"github.com/maay-app/maay-api/internal/progression"
)

type UserHandler struct {
	engine    *progression.Engine
	repo      dal.UsersRepository
	staticDir string

	log *slog.Logger
}

func NewUserHandler(engine *progression.Engine, repo dal.UsersRepository, staticDir string, log *slog.Logger) *UserHandler {
	return &UserHandler{
		engine:    engine,
		repo:      repo,
		staticDir: staticDir,

		log: log,
	}
}

func (h *UserHandler) Stats(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	stats, err := h.engine.UserStats(c.Request().Context(), user)
	if err != nil {
		return writeDomainError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"username":            stats.Username,
		"xp":                  stats.XP,
		"level":               stats.Level,
		"lives":               stats.Lives,
		"streak":              stats.Streak,
		"lessons_completed":   stats.LessonsCompleted,
		"total_lessons":       stats.TotalLessons,
		"progress_percentage": stats.ProgressPercentage,
	})
}

func (h *UserHandler) GainLife(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	result, err := h.engine.GainLife(c.Request().Context(), user.ID)
	if err != nil {
		return writeDomainError(c, h.log, err)
	}

	if !result.Changed {
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"lives":   result.Lives,
			"message": "Lives full",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"lives":   result.Lives,
		"message": "Heart gained!",
	})
}

func (h *UserHandler) UploadProfileImage(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to read form file", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := imageExtension(contentType)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid file type"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to open uploaded file", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	defer src.Close()

	dir := filepath.Join(h.staticDir, "profile_images")
	if err = os.MkdirAll(dir, 0o755); err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to create profile images dir", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	filename := user.ID + ext
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to create image file", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to write image file", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	url := fmt.Sprintf("/static/profile_images/%s", filename)
	if err = h.repo.SetProfileImageURL(c.Request().Context(), user.ID, url); err != nil {
		return writeDomainError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

func imageExtension(contentType string) (string, bool) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", false
	}
	switch strings.TrimPrefix(contentType, "image/") {
	case "jpeg", "jpg":
		return ".jpg", true
	case "png":
		return ".png", true
	case "webp":
		return ".webp", true
	default:
		return ".jpg", true
	}
}
