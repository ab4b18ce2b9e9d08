package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	appctx "github.com/maay-app/maay-api/internal/context"
	"github.com/maay-app/maay-api/internal/dal"
	"github.com/maay-app/maay-api/internal/progression"
)

type (
	AuthHandler struct {
		repo         dal.UsersRepository
		engine       *progression.Engine
		jwtProcessor *JWTProcessor

		log *slog.Logger
	}

	signupRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Username string `json:"username" validate:"required,min=1"`
	}

	loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)

func NewAuthHandler(repo dal.UsersRepository, engine *progression.Engine, jwtProcessor *JWTProcessor, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		repo:         repo,
		engine:       engine,
		jwtProcessor: jwtProcessor,

		log: log,
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to hash password", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	now := time.Now().UTC()
	user := dal.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		XP:           0,
		Lives:        progression.MaxLives,
		Streak:       0,
		LastActivity: &now,
		CreatedAt:    now,
	}

	if err = h.repo.InsertUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, dal.ErrConflict) {
			return c.JSON(http.StatusConflict, ErrorResponse{Message: "email already registered"})
		}
		return writeDomainError(c, h.log, err)
	}

	return h.respondWithToken(c, user.ID)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	user, err := h.repo.FindUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "incorrect email or password"})
		}
		return writeDomainError(c, h.log, err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "incorrect email or password"})
	}

	if _, err = h.engine.UpdateStreakOnLogin(c.Request().Context(), user); err != nil {
		return writeDomainError(c, h.log, err)
	}

	return h.respondWithToken(c, user.ID)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := appctx.MustUserFromContext(c.Request().Context())

	return c.JSON(http.StatusOK, echo.Map{
		"id":                user.ID,
		"email":             user.Email,
		"username":          user.Username,
		"xp":                user.XP,
		"lives":             user.Lives,
		"streak":            user.Streak,
		"level":             progression.Level(user.XP),
		"profile_image_url": user.ProfileImageURL,
	})
}

func (h *AuthHandler) respondWithToken(c echo.Context, userID string) error {
	token, err := h.jwtProcessor.ToAccessToken(userID)
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to create access token", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
