package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farsiflash/internal/config"
	"farsiflash/internal/database"
	"farsiflash/internal/handler"
	"farsiflash/internal/reminder"
	"farsiflash/internal/service"
	"farsiflash/internal/srs"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting FarsiFlash Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("session_size", cfg.SessionSize),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database and apply schema
	stores, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer stores.Close()

	// Initialize services
	authService := service.NewAuthService(stores.Users, cfg.BotPassword).WithDefaultLevel(cfg.DefaultLevel)
	sessionService := service.NewSessionService(stores.Items, stores.Progress, logger,
		service.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
	)
	reviewService := service.NewReviewService(stores.Items, stores.Progress, srs.NewScheduler(srs.DefaultParams()), logger)
	statsService := service.NewStatsService(stores.Progress, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(bot, authService, sessionService, reviewService, statsService, cfg.SessionSize, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Daily reminders
	reminders := reminder.New(authService, statsService, h, cfg.ReminderHour, logger)
	if err := reminders.Start(); err != nil {
		logger.Fatal("Failed to start reminders", zap.Error(err))
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	reminders.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}
