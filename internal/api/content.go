package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/maay-app/maay-api/internal/catalog"
)

// ContentHandler serves the static curriculum extras: unit tips and the
// dictionary.
type ContentHandler struct {
	catalog *catalog.Catalog
	log     *slog.Logger
}

func NewContentHandler(cat *catalog.Catalog, log *slog.Logger) *ContentHandler {
	return &ContentHandler{
		catalog: cat,
		log:     log,
	}
}

func (h *ContentHandler) Tips(c echo.Context) error {
	unit, err := strconv.Atoi(c.Param("unit"))
	if err != nil {
		h.log.DebugContext(c.Request().Context(), "invalid unit param", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	tips, ok := h.catalog.Tips(unit)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "tips not found for this unit"})
	}

	return c.JSON(http.StatusOK, tips)
}

func (h *ContentHandler) Dictionary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Dictionary(c.QueryParam("search")))
}
