package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	appctx "github.com/maay-app/maay-api/internal/context"
	"github.com/maay-app/maay-api/internal/dal"
)

var unauthorizedResponse = ErrorResponse{"Unauthorized"} //nolint:gochecknoglobals // this is a constant response for unauthorized access

// AuthMiddleware resolves the bearer token into a full user record and puts
// it on the request context. Tokens naming an unknown user are rejected the
// same way as invalid tokens.
func AuthMiddleware(jwtProc *JWTProcessor, repo dal.UsersRepository, log *slog.Logger) func(next echo.HandlerFunc) echo.HandlerFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			userID, err := jwtProc.ParseAccessToken(token)
			if err != nil {
				log.WarnContext(c.Request().Context(), "parse access token", "error", err)
				return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
			}

			user, err := repo.FindUserByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, dal.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
				}
				return writeDomainError(c, log, err)
			}

			c.SetRequest(c.Request().WithContext(appctx.WithUser(c.Request().Context(), user)))

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
