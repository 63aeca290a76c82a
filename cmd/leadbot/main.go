package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jmoiron/sqlx"

	coreconfig "github.com/jenli/leadbot/core/config"
	coredatabase "github.com/jenli/leadbot/core/database"
	"github.com/jenli/leadbot/core/logger"
	tg "github.com/jenli/leadbot/core/telegram"
	"github.com/jenli/leadbot/internal/bot"
	"github.com/jenli/leadbot/internal/health"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	if err := run(); err != nil {
		logger.Error(context.Background(), "app", "fatal", slog.String("err", err.Error()))
		_ = logger.Shutdown()
		os.Exit(1)
	}
	_ = logger.Shutdown()
}

func run() error {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := coreconfig.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Settings{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		KeysOrder: cfg.Logging.KeysOrder,
		Dir:       cfg.Logging.Dir,
		File:      cfg.Logging.BotFile,
		Profile:   cfg.Logging.Profile,
	}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sqlx.DB
	if cfg.Database.Enabled() {
		db, err = coredatabase.Connect(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := coredatabase.RunMigrations(cfg.Database, "migrations"); err != nil {
			return err
		}
	}

	go func() {
		if err := health.Serve(ctx, cfg.Health.Listen); err != nil {
			logger.Error(ctx, "health", "serve.fail", slog.String("err", err.Error()))
		}
	}()

	app := bot.New(cfg, db)
	reg := app.Registry()

	return tg.Run(ctx, tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(cfg, nil),
		Routes:      app.Routes(reg),
		OnStart:     app.Start,
		OnStop:      app.Stop,
	})
}
