package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/fantraxbot/internal/api/fantrax"
	"github.com/omarshaarawi/fantraxbot/internal/api/odds"
	"github.com/omarshaarawi/fantraxbot/internal/bot"
	"github.com/omarshaarawi/fantraxbot/internal/config"
	"github.com/omarshaarawi/fantraxbot/internal/repository/memory"
	"github.com/omarshaarawi/fantraxbot/internal/scheduler"
	"github.com/omarshaarawi/fantraxbot/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	mode, err := service.ParseMode(cfg.Manager.Mode)
	if err != nil {
		return err
	}

	fantraxClient := fantrax.NewClient(cfg.Fantrax)
	fantraxAPI := fantrax.NewAPI(fantraxClient)

	var oddsSource service.OddsSource
	if cfg.OddsAPI.APIKey != "" {
		oddsClient := odds.NewClient(cfg.OddsAPI)
		oddsSource = odds.NewAPI(oddsClient)
	} else {
		slog.Info("No odds API key configured, valuations will use league standings only")
	}

	repo := memory.NewRepository()

	var telegramBot *bot.TelegramBot
	notify := func(string) error { return nil }
	manager := service.NewManager(
		fantraxAPI, fantraxAPI, oddsSource, fantraxAPI, repo,
		mode, cfg.Manager.UpdateInterval, cfg.OddsAPI.RefreshInterval,
		func(text string) error { return notify(text) },
	)

	if cfg.TelegramBot.Token != "" {
		telegramBot, err = bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, manager)
		if err != nil {
			return err
		}
		notify = telegramBot.SendMessage
	}

	if cfg.Manager.RunOnce {
		slog.Info("Running once, optimizing lineup")
		return manager.RunCycle()
	}

	sched, err := scheduler.NewScheduler(manager)
	if err != nil {
		return err
	}

	if err := sched.Start(cfg.Manager.UpdateInterval); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(cfg.Manager.HealthAddr, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if telegramBot != nil {
		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
