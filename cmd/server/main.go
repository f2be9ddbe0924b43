package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/codebuildervaibhav/podcast-transcript/internal/cleanup"
	"github.com/codebuildervaibhav/podcast-transcript/internal/config"
	"github.com/codebuildervaibhav/podcast-transcript/internal/handlers"
	"github.com/codebuildervaibhav/podcast-transcript/internal/logging"
	"github.com/codebuildervaibhav/podcast-transcript/internal/queue"
	"github.com/codebuildervaibhav/podcast-transcript/internal/session"
	"github.com/codebuildervaibhav/podcast-transcript/internal/transcription"
)

func main() {
	envFile, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logBuffer := logging.NewLogBuffer(logging.DefaultBufferLines)
	log := logging.NewLogger(cfg.Log.Development, logBuffer)
	defer log.Sync()

	if envFile != "" {
		log.Info("loaded environment file", zap.String("path", envFile))
	}
	if !cfg.HasCredential() {
		log.Warn("no API key configured; transcription requests will fail until it is set",
			zap.String("env", config.APIKeyEnv))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transcriber := transcription.NewGeminiTranscriber(transcription.Options{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		BaseURL:     cfg.Gemini.BaseURL,
	}, log)

	workerPool := queue.NewWorkerPool(cfg.Workers.Count, transcriber, cfg.RequestTimeout(), log)
	workerPool.Start(ctx)

	store := session.NewStore(workerPool, cfg.HasCredential, log)

	cleanupScheduler := cleanup.NewScheduler(
		store,
		time.Duration(cfg.Sessions.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.Sessions.MaxIdleHours)*time.Hour,
		log,
	)
	cleanupScheduler.Start()

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit(),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: logging.Writer(logBuffer),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.Mount(app, handlers.Deps{
		Store:         store,
		Logs:          logBuffer.Lines,
		MaxFileSizeMB: cfg.Limits.MaxFileSizeMB,
		Model:         transcriber.Model(),
		Logger:        log,
	})

	addr := cfg.Addr()
	log.Info("server starting",
		zap.String("addr", addr),
		zap.String("model", transcriber.Model()),
		zap.Int("workers", cfg.Workers.Count))

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("shutting down gracefully")
		if err := app.Shutdown(); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	if err := app.Listen(addr); err != nil {
		log.Error("server failed", zap.Error(err))
	}

	cleanupScheduler.Stop()
	cancel()
	workerPool.Stop()
	store.CloseAll()
}
