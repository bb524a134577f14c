package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	webAdapter "quotation-desk/internal/adapters/web"
	"quotation-desk/internal/ai"
	"quotation-desk/internal/api"
	"quotation-desk/internal/app"
	"quotation-desk/internal/config"
	"quotation-desk/internal/db"
	"quotation-desk/internal/logging"
	"quotation-desk/internal/session"
	"quotation-desk/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := session.Open(cfg.Home)
	if err != nil {
		log.Fatal("session", zap.Error(err))
	}
	retry := cfg.RetryConfig()
	client, err := api.New(api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Retry:   &retry,
		Tokens:  sessions,
		Logger:  log,
	})
	if err != nil {
		log.Fatal("api client", zap.Error(err))
	}

	var store settings.Store = settings.NewFileStore(cfg.Home)
	if cfg.SettingsDatabaseURL != "" {
		var pool *pgxpool.Pool
		pool, err = db.NewPool(ctx, cfg.SettingsDatabaseURL)
		if err != nil {
			log.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		store = settings.NewPostgresStore(pool, cfg.SettingsProfile)
	}
	settingsSvc := settings.NewService(store, log)
	if err := settingsSvc.Load(ctx); err != nil {
		log.Fatal("settings", zap.Error(err))
	}

	var assistant ai.DraftingService
	if cfg.OpenAIAPIKey != "" {
		assistant = ai.NewAssistant(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Warn("OPENAI_API_KEY is not set, suggestions return 503")
	}

	svc := app.NewAppService(client, settingsSvc, sessions, assistant, log)
	secret := cfg.JWTSecret
	if secret == "" {
		secret = randomSecret()
		log.Warn("JWT_SECRET is not set, browser sessions end when the server restarts")
	}
	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, secret, log)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("addr", srv.Addr), zap.String("api", client.BaseURL()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", zap.Error(err))
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
