package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maay-app/maay-api/internal/api"
	"github.com/maay-app/maay-api/internal/catalog"
	"github.com/maay-app/maay-api/internal/config"
	sqlrepo "github.com/maay-app/maay-api/internal/dal/sql"
	"github.com/maay-app/maay-api/internal/progression"
	"github.com/maay-app/maay-api/internal/translator"
)

var (
	// Version is set via -ldflags at build time
	Version = "dev" //nolint:gochecknoglobals // must be global to be replaced at build time
	// BuildTime is set via -ldflags at build time
	BuildTime = "unknown" //nolint:gochecknoglobals // must be global to be replaced at build time
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeCatalogLoad
	exitCodeDBConnect
	exitCodeServerStart
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	go func() {
		<-sigs
		cancel()
	}()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	conf, err := config.NewAPI(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // ignore
		return exitCodeConfigParse
	}
	log := mustLogger(conf.Dev)

	cat, err := catalog.Load()
	if err != nil {
		log.ErrorContext(ctx, "failed to load catalog", "error", err)
		return exitCodeCatalogLoad
	}

	db, err := sql.Open("sqlite", conf.DB.URL)
	if err != nil {
		log.ErrorContext(ctx, "failed to create database connection pool", "error", err)
		return exitCodeDBConnect
	}
	defer db.Close()

	if err = sqlrepo.InitSchema(ctx, db); err != nil {
		log.ErrorContext(ctx, "failed to init database schema", "error", err)
		return exitCodeDBConnect
	}

	router := api.NewRouter(ctx, conf, dependencies(conf, db, cat, log))
	log.InfoContext(ctx, "starting api server",
		"version", Version,
		"build_time", BuildTime,
		"address", conf.Server.Addr,
		"lessons", cat.Len(),
	)

	server := &http.Server{
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
		Addr:              conf.Server.Addr,
		Handler:           router,
	}

	go func() {
		<-ctx.Done()
		cCtx, cCancel := context.WithTimeout(context.Background(), 15*time.Second) //nolint:mnd // ignore mnd
		defer cCancel()

		if sErr := server.Shutdown(cCtx); sErr != nil {
			log.ErrorContext(cCtx, "failed to shutdown api server", "error", sErr)
		}
	}()

	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "failed to start api server", "error", err)
		return exitCodeServerStart
	}

	log.InfoContext(ctx, "api server is stopped")

	return exitCodeOK
}

func dependencies(conf *config.API, db *sql.DB, cat *catalog.Catalog, log *slog.Logger) api.Dependencies {
	repo := sqlrepo.NewSQLiteRepository(db, log)
	return api.Dependencies{
		Repo:       repo,
		Catalog:    cat,
		Engine:     progression.NewEngine(repo, cat, log),
		Translator: translator.NewClient(conf.Azure.TranslatorKey, conf.Azure.TranslatorRegion, log),
		Logger:     log,
	}
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
