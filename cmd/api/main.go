package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dinner-planner/config"
	_ "dinner-planner/docs" // Swagger docs
	"dinner-planner/internal/httpserver"
	gchatDelivery "dinner-planner/internal/planner/delivery/googlechat"
	lineDelivery "dinner-planner/internal/planner/delivery/line"
	"dinner-planner/internal/planner/pipeline"
	"dinner-planner/internal/planner/session"
	"dinner-planner/internal/planner/stages"
	"dinner-planner/internal/planner/usecase"
	"dinner-planner/internal/webhook"
	"dinner-planner/pkg/gchat"
	"dinner-planner/pkg/line"
	"dinner-planner/pkg/llmprovider"
	"dinner-planner/pkg/log"
)

// @title       Dinner Planner API
// @description Chat-based dinner planning: dish idea, shopping list, and recipe from a single meal request over LINE and Google Chat.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Dinner Planner...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. LLM providers with priority fallback
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		MaxTotalTimeout: config.Duration(cfg.LLM.MaxTotalTimeout, 0),
	}, logger)

	// 4. Planning pipeline
	pl, err := pipeline.New(manager, logger, stages.Dinner(),
		pipeline.WithRetry(
			cfg.Pipeline.RetryAttempts,
			config.Duration(cfg.Pipeline.RetryDelay, pipeline.DefaultRetryDelay),
		),
	)
	if err != nil {
		logger.Error(ctx, "Invalid pipeline configuration: ", err)
		return
	}

	// 5. Session store
	store := session.NewStore(logger, session.Config{
		IdleTTL:         config.Duration(cfg.Session.IdleTTL, session.DefaultIdleTTL),
		CleanupInterval: config.Duration(cfg.Session.CleanupInterval, session.DefaultCleanupInterval),
	})
	defer store.Close()

	// 6. Dispatcher
	plannerUC := usecase.New(logger, pl, store)

	// 7. Delivery handlers
	var lineHandler lineDelivery.Handler
	if cfg.Line.ChannelSecret != "" && cfg.Line.ChannelAccessToken != "" {
		bot := line.NewBot(cfg.Line.ChannelAccessToken)
		lineHandler = lineDelivery.New(logger, plannerUC, bot, cfg.Line.ChannelSecret)
		logger.Info(ctx, "LINE delivery initialized")
	} else {
		logger.Warn(ctx, "LINE delivery skipped: LINE_CHANNEL_SECRET or LINE_CHANNEL_ACCESS_TOKEN is missing")
	}

	var gchatHandler gchatDelivery.Handler
	if cfg.GoogleChat.Enabled {
		var chatClient *gchat.Client
		if cfg.GoogleChat.CredentialsPath != "" {
			chatClient, err = gchat.NewClientFromCredentialsFile(ctx, cfg.GoogleChat.CredentialsPath)
			if err != nil {
				logger.Warnf(ctx, "Google Chat API client not available, falling back to synchronous replies: %v", err)
				chatClient = nil
			}
		}
		gchatHandler = gchatDelivery.New(logger, plannerUC, chatClient)
		logger.Info(ctx, "Google Chat delivery initialized")
	}

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:            logger,
		Port:              cfg.HTTPServer.Port,
		Mode:              cfg.HTTPServer.Mode,
		Environment:       cfg.Environment.Name,
		LineHandler:       lineHandler,
		GoogleChatHandler: gchatHandler,
		Webhook: webhook.Config{
			Enabled:         cfg.Webhook.Enabled,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
