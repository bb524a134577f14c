package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"quotation-desk/internal/adapters/cli"
	"quotation-desk/internal/adapters/repl"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, closeFn, err := buildService(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer closeFn()

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, svc, os.Args[1:], os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			stop()
			os.Exit(1)
		}
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
}

func buildService(ctx context.Context, cfg config.Config, log *zap.Logger) (app.ApplicationService, func(), error) {
	sessions, err := session.Open(cfg.Home)
	if err != nil {
		return nil, nil, err
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
		return nil, nil, err
	}

	var (
		store settings.Store = settings.NewFileStore(cfg.Home)
		pool  *pgxpool.Pool
	)
	if cfg.SettingsDatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.SettingsDatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store = settings.NewPostgresStore(pool, cfg.SettingsProfile)
	}
	closeFn := func() {
		if pool != nil {
			pool.Close()
		}
	}

	settingsSvc := settings.NewService(store, log)
	if err := settingsSvc.Load(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}

	var assistant ai.DraftingService
	if cfg.OpenAIAPIKey != "" {
		assistant = ai.NewAssistant(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Info("OPENAI_API_KEY is not set, line-item suggestions are disabled")
	}

	return app.NewAppService(client, settingsSvc, sessions, assistant, log), closeFn, nil
}
