package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/Roma7-7-7/vocab-trainer/internal/auth"
	"github.com/Roma7-7-7/vocab-trainer/internal/config"
	dalsql "github.com/Roma7-7-7/vocab-trainer/internal/dal/sql"
	"github.com/Roma7-7-7/vocab-trainer/internal/enrich"
	"github.com/Roma7-7-7/vocab-trainer/internal/web"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeDBConnect
	exitCodeDBMigrate
	exitCodeDependenciesCreate
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

	conf, err := config.NewWeb(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err)
		return exitCodeConfigParse
	}

	log := mustLogger(conf.Dev)
	log.InfoContext(ctx, "starting", "version", Version, "build_time", BuildTime)

	db, err := dalsql.Open(ctx, conf.DB.URL)
	if err != nil {
		log.ErrorContext(ctx, "failed to open database", "error", err)
		return exitCodeDBConnect
	}
	defer db.Close()

	if err = dalsql.Migrate(ctx, db.DB, log); err != nil {
		log.ErrorContext(ctx, "failed to migrate database", "error", err)
		return exitCodeDBMigrate
	}

	router, err := web.NewRouter(*conf, dependencies(conf, db, log))
	if err != nil {
		log.ErrorContext(ctx, "failed to create router", "error", err)
		return exitCodeDependenciesCreate
	}
	log.InfoContext(ctx, "starting web server", "config", conf)

	server := &http.Server{
		Addr:              conf.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		cCtx, cCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cCancel()

		if sErr := server.Shutdown(cCtx); sErr != nil {
			log.ErrorContext(cCtx, "failed to shutdown web server", "error", sErr)
		}
	}()

	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "failed to start web server", "error", err)
		return exitCodeServerStart
	}
	log.InfoContext(ctx, "web server is stopped")

	return exitCodeOK
}

func dependencies(conf *config.Web, db *sqlx.DB, log *slog.Logger) web.Dependencies {
	translator := enrich.NewGoogleTranslator(conf.Enrichment.TranslateURL, conf.Enrichment.Timeout, log)
	images := enrich.NewUnsplashImages(conf.Enrichment.ImageURL)

	return web.Dependencies{
		Repo:     dalsql.NewRepository(db, log),
		Enricher: enrich.NewEnricher(translator, images, conf.Enrichment.SourceLang, conf.Enrichment.TargetLang),
		Hasher:   auth.NewPasswordHasher(bcrypt.DefaultCost),
		Logger:   log,
	}
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler
	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return slog.New(handler)
}
