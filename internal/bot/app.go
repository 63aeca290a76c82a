// Package bot wires the intake conversation to the Telegram transport.
package bot

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/jenli/leadbot/core/config"
	tg "github.com/jenli/leadbot/core/telegram"
	"github.com/jenli/leadbot/core/telegram/commands"
	"github.com/jenli/leadbot/core/telegram/router"
	"github.com/jenli/leadbot/internal/flow"
	"github.com/jenli/leadbot/internal/lead"
	"github.com/jenli/leadbot/internal/notify"
	"github.com/jenli/leadbot/internal/storage"
)

// App owns the conversation machine, the notifier, and their Telegram
// bindings.
type App struct {
	cfg      *coreconfig.Config
	store    *flow.Store
	machine  *flow.Machine
	repo     *storage.LeadRepo
	notifier *notify.Notifier
}

// New builds the application. The notifier is completed in Start once
// the bot connection exists.
func New(cfg *coreconfig.Config, db *sqlx.DB) *App {
	a := &App{cfg: cfg, store: flow.NewStore()}
	if db != nil {
		a.repo = storage.NewLeadRepo(db)
	}
	a.machine = flow.NewMachine(a.store, a)
	return a
}

// Notify forwards a record to the configured sinks. Records produced
// before Start completes are dropped, which cannot happen in practice
// because updates only flow after the bot is running.
func (a *App) Notify(ctx context.Context, rec lead.Record) {
	if a.notifier != nil {
		a.notifier.Notify(ctx, rec)
	}
}

// Registry declares the bot's commands and callbacks.
func (a *App) Registry() *tg.Registry {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Start the intake questions",
	})
	reg.RegisterCommand("/human", commands.Command{
		Handler:     a.handleHuman,
		Description: "Talk to a human",
	})
	if err := reg.RegisterCallback(langCallbackKey, a.handleLangCallback); err != nil {
		return reg
	}
	reg.SetTextFallback(a.handleDialog)
	return reg
}

// Routes builds the update routing table.
func (a *App) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{
		Intercept:   a.interceptHandoff,
		SessionID:   sessionID,
		UnknownText: a.handleDialog,
	})...)
	routes = append(routes, router.CallbackRoute(reg))
	return routes
}

// Start finishes wiring once the bot connection is up.
func (a *App) Start(_ context.Context, rt tg.Runtime) error {
	timeout := time.Duration(a.cfg.Sinks.DeliveryTimeoutMS) * time.Millisecond
	client := &http.Client{Timeout: timeout}

	opts := notify.Options{Timeout: timeout}
	if s := notify.NewAdminSink(rt.Bot, a.cfg.Sinks.AdminChatID); s != nil {
		opts.Admin = s
	}
	if s := notify.NewWebhookSink(a.cfg.Sinks.OutboundWebhook, client); s != nil {
		opts.Async = append(opts.Async, s)
	}
	if s := notify.NewSlackSink(a.cfg.Sinks.SlackWebhook, client); s != nil {
		opts.Async = append(opts.Async, s)
	}
	if a.repo != nil {
		if s := notify.NewArchiveSink(a.repo); s != nil {
			opts.Async = append(opts.Async, s)
		}
	}
	a.notifier = notify.New(opts)
	return nil
}

// Stop waits for in-flight sink deliveries.
func (a *App) Stop(context.Context, tg.Runtime) error {
	if a.notifier != nil {
		a.notifier.Drain()
	}
	return nil
}
