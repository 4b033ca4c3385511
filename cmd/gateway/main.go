package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	api "github.com/roomfit/roomfit/internal/api/http"
	auth "github.com/roomfit/roomfit/internal/auth/middleware"
	"github.com/roomfit/roomfit/internal/config"
	"github.com/roomfit/roomfit/internal/db"
	"github.com/roomfit/roomfit/internal/logging"
	"github.com/roomfit/roomfit/internal/match"
	"github.com/roomfit/roomfit/internal/metrics"
	"github.com/roomfit/roomfit/internal/questionnaire"
	syncx "github.com/roomfit/roomfit/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("gateway stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	store := match.NewSQLStore(dbh, cfg.DBDriver)
	if err := seed(openCtx, cfg, store, log); err != nil {
		return err
	}
	events := syncx.NewEventRepo(dbh)

	if cfg.AdminPassHash == "" {
		log.Warn("ADMIN_PASS_HASH not set; admin login disabled")
	}

	handler := api.NewRouter(api.Deps{
		Auth:        auth.NewAuthService(cfg.HMACSecret, cfg.TokenTTL),
		Users:       auth.NewSQLUsers(dbh),
		Admin:       auth.Admin{Username: cfg.AdminUser, PasswordHash: cfg.AdminPassHash},
		AllowSignup: cfg.EnableRegistration,
		Store:       store,
		Events:      events,
		EventLog:    events,
		DB:          dbh,
		Metrics:     metrics.New(),
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("mode", string(cfg.Mode)),
			zap.String("db", cfg.DBDriver))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("shut down")
	return nil
}

// seed installs a question catalog when the store has none and loads match
// fixtures when configured.
func seed(ctx context.Context, cfg config.Config, store match.Store, log *zap.Logger) error {
	_, err := store.GetCatalog(ctx)
	switch {
	case errors.Is(err, match.ErrNotFound):
		qs := questionnaire.DefaultCatalog()
		if cfg.CatalogPath != "" {
			f, err := os.Open(cfg.CatalogPath)
			if err != nil {
				return err
			}
			qs, err = questionnaire.ParseCatalog(f)
			f.Close()
			if err != nil {
				return err
			}
		}
		if err := store.PutCatalog(ctx, qs); err != nil {
			return err
		}
		log.Info("question catalog installed", zap.Int("questions", len(qs)), zap.String("path", cfg.CatalogPath))
	case err != nil:
		return err
	}

	if cfg.MatchFixtures == "" {
		return nil
	}
	fx, err := match.LoadFixturesFile(cfg.MatchFixtures)
	if err != nil {
		return err
	}
	if err := fx.Seed(ctx, store); err != nil {
		return err
	}
	log.Info("match fixtures loaded", zap.Int("sets", len(fx)), zap.String("path", cfg.MatchFixtures))
	return nil
}
