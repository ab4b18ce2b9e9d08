package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type (
	// TranslatorClient is the Azure proxy surface the handlers need.
	TranslatorClient interface {
		Translate(ctx context.Context, text, from, to string) (string, error)
		Speak(ctx context.Context, text string) (io.ReadCloser, string, error)
	}

	TranslateHandler struct {
		client TranslatorClient
		log    *slog.Logger
	}

	translateRequest struct {
		Text string `json:"text" validate:"required,min=1"`
		From string `json:"from_lang"`
		To   string `json:"to_lang"`
	}

	speakRequest struct {
		Text string `json:"text" validate:"required,min=1"`
	}
)

func NewTranslateHandler(client TranslatorClient, log *slog.Logger) *TranslateHandler {
	return &TranslateHandler{
		client: client,
		log:    log,
	}
}

func (h *TranslateHandler) Translate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	if req.From == "" {
		req.From = "es"
	}
	if req.To == "" {
		req.To = "yua"
	}

	translated, err := h.client.Translate(c.Request().Context(), req.Text, req.From, req.To)
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to translate", "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Message: "translation service error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"text": translated})
}

func (h *TranslateHandler) Speak(c echo.Context) error {
	var req speakRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	audio, contentType, err := h.client.Speak(c.Request().Context(), req.Text)
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to synthesize speech", "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Message: "speech service error"})
	}
	defer audio.Close()

	return c.Stream(http.StatusOK, contentType, audio)
}
