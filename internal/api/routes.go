package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/maay-app/maay-api/internal/catalog"
	"github.com/maay-app/maay-api/internal/config"
	"github.com/maay-app/maay-api/internal/dal"
	"github.com/maay-app/maay-api/internal/progression"
)

type (
	Dependencies struct {
		Repo       dal.Repository
		Catalog    *catalog.Catalog
		Engine     *progression.Engine
		Translator TranslatorClient
		Logger     *slog.Logger
	}
)

func NewRouter(ctx context.Context, conf *config.API, deps Dependencies) http.Handler {
	e := echo.New()

	e.Use(middleware.RequestID())
	e.Use(loggingMiddleware(ctx, deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.HTTP.RateLimit))))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.HTTP.CORS.AllowOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: conf.HTTP.ProcessTimeout,
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)
	e.Validator = NewValidator()

	jwtProcessor := NewJWTProcessor(conf.HTTP.JWT)
	authMiddleware := AuthMiddleware(jwtProcessor, deps.Repo, deps.Logger)

	auth := NewAuthHandler(deps.Repo, deps.Engine, jwtProcessor, deps.Logger)
	lessons := NewLessonsHandler(deps.Engine, deps.Catalog, deps.Logger)
	user := NewUserHandler(deps.Engine, deps.Repo, conf.Static.Dir, deps.Logger)
	content := NewContentHandler(deps.Catalog, deps.Logger)
	translate := NewTranslateHandler(deps.Translator, deps.Logger)

	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/signup", auth.Signup)
	apiGroup.POST("/auth/login", auth.Login)
	apiGroup.POST("/translate", translate.Translate)
	apiGroup.POST("/speak", translate.Speak)

	securedGroup := apiGroup.Group("", authMiddleware)
	securedGroup.GET("/auth/me", auth.Me)
	securedGroup.GET("/lessons", lessons.List)
	securedGroup.GET("/lessons/:id", lessons.Get)
	securedGroup.POST("/lessons/:id/complete", lessons.Complete)
	securedGroup.POST("/lessons/review", lessons.Review)
	securedGroup.POST("/lessons/lose-life", lessons.LoseLife)
	securedGroup.GET("/user/stats", user.Stats)
	securedGroup.POST("/user/gain-life", user.GainLife)
	securedGroup.POST("/user/profile-image", user.UploadProfileImage)
	securedGroup.GET("/tips/:unit", content.Tips)
	securedGroup.GET("/dictionary", content.Dictionary)

	e.Static("/static", conf.Static.Dir)

	return e
}

func loggingMiddleware(ctx context.Context, log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
				)
			} else {
				log.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
