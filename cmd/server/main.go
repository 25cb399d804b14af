package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stockpulse/newswire/internal/adapters/config"
	"github.com/stockpulse/newswire/internal/adapters/finnhub"
	"github.com/stockpulse/newswire/internal/adapters/newsapi"
	"github.com/stockpulse/newswire/internal/adapters/push"
	"github.com/stockpulse/newswire/internal/adapters/telegram"
	"github.com/stockpulse/newswire/internal/enrich"
	"github.com/stockpulse/newswire/internal/hub"
	"github.com/stockpulse/newswire/internal/pipeline"
	"github.com/stockpulse/newswire/internal/rules"
	"github.com/stockpulse/newswire/internal/server"
	"github.com/stockpulse/newswire/pkg/logger"
	"github.com/stockpulse/newswire/pkg/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Optional .env file for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Stock News Realtime Server starting...",
		zap.Int("port", cfg.Server.Port),
	)

	enricher := enrich.NewEnricher()
	fanout := hub.NewHub()

	pipe := pipeline.New(fanout, rules.NewEngine(), buildDispatchers(cfg)...)
	pipe.Start(ctx)

	pollWorker := startAdapters(ctx, cfg, enricher, pipe)

	srv := server.New(cfg.Server.Port, fanout)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()
	srv.SetReady(true)

	<-ctx.Done()
	logger.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if pollWorker != nil {
		pollWorker.Stop(shutdownTimeout)
	}
	pipe.Stop(shutdownTimeout)

	return nil
}

// buildDispatchers assembles the configured push channels. With no
// backend configured the pipeline gets a single no-op dispatcher.
func buildDispatchers(cfg *config.Config) []push.Dispatcher {
	var dispatchers []push.Dispatcher

	if cfg.Push.CredentialsPath != "" {
		fcm, err := push.NewFCMClient(cfg.Push.CredentialsPath, cfg.Push.Topic)
		if err != nil {
			logger.Warn("FCM disabled", zap.Error(err))
		} else {
			dispatchers = append(dispatchers, fcm)
			logger.Info("FCM push dispatcher initialized",
				zap.String("topic", cfg.Push.Topic),
			)
		}
	} else {
		logger.Info("FCM service account not provided, push disabled")
	}

	if cfg.TelegramEnabled() {
		notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warn("telegram channel disabled", zap.Error(err))
		} else {
			dispatchers = append(dispatchers, notifier)
		}
	}

	if len(dispatchers) == 0 {
		dispatchers = append(dispatchers, push.Noop{})
	}

	return dispatchers
}

// startAdapters launches every source adapter that has a key
// configured. A missing key disables that source only.
func startAdapters(ctx context.Context, cfg *config.Config, enricher *enrich.Enricher, pipe *pipeline.Pipeline) *worker.PeriodicWorker {
	if cfg.FinnhubEnabled() {
		adapter := finnhub.NewAdapter(&cfg.Finnhub, enricher, pipe.Events())
		go adapter.Start(ctx)
	} else {
		logger.Warn("FINNHUB_KEY missing, streaming source disabled")
	}

	if !cfg.NewsAPIEnabled() {
		logger.Warn("NEWSAPI_KEY missing, polling source disabled")
		return nil
	}

	poller := newsapi.NewPoller(&cfg.NewsAPI, enricher, pipe.Events())
	pollWorker := worker.NewPeriodicWorker(poller, cfg.NewsAPI.PollInterval)
	pollWorker.Start(ctx)

	return pollWorker
}
