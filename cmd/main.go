package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/config"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/backend"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/geocoder"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/handler"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/order"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/repository"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/traits/database"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/traits/logger"
)

const awaitSweepInterval = time.Minute

func main() {
	// Initialize logger
	zapLogger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		zapLogger.Error("error init config", zap.Error(err))
		return
	}

	// Validate configuration
	if err := cfg.ValidateConfig(); err != nil {
		zapLogger.Error("invalid configuration", zap.Error(err))
		return
	}

	zapLogger.Info("Starting taxi bot",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("backend", cfg.BackendURL),
		zap.String("await_store", cfg.AwaitStore),
	)

	awaits, closers, err := newAwaitStore(cfg, zapLogger)
	if err != nil {
		zapLogger.Error("failed to initialize await store", zap.Error(err))
		return
	}
	defer func() {
		var closeErr error
		for _, c := range closers {
			closeErr = multierr.Append(closeErr, c.Close())
		}
		if closeErr != nil {
			zapLogger.Error("failed to close resources", zap.Error(closeErr))
		}
	}()

	// Backend collaborators
	api := backend.NewClient(cfg.BackendURL, cfg.InternalToken, cfg.BackendTimeout, zapLogger)
	resolver := geocoder.NewResolver(api, cfg.GeoRegionSuffix, cfg.GeoRegionKeywords, zapLogger)
	submitter := order.NewSubmitter(api, zapLogger)
	feed := handler.NewLiveFeed(zapLogger)

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handl := handler.NewHandler(cfg, zapLogger, api, awaits, resolver, submitter, feed)

	// Create bot instance
	opts := []bot.Option{
		bot.WithDefaultHandler(handl.DefaultHandler),
		bot.WithMiddlewares(handl.RecoverMiddleware),
	}

	b, err := bot.New(cfg.Token, opts...)
	if err != nil {
		zapLogger.Error("error creating bot", zap.Error(err))
		return
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			zapLogger.Warn("failed to drop pending updates", zap.Error(err))
		}
	}

	// Set up graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-stop
		zapLogger.Info("Shutdown signal received")
		cancel()
	}()

	go feed.Run(ctx)
	go handl.RunAwaitSweeper(ctx, awaitSweepInterval)

	// Start web server
	go handl.StartWebServer(ctx)
	zapLogger.Info("Web server started", zap.String("address", cfg.GetServerAddress()))

	// Start bot
	zapLogger.Info("Bot started successfully")
	b.Start(ctx)

	zapLogger.Info("Application stopped successfully")
}

// newAwaitStore picks the await store from config and returns what has to be
// closed on shutdown.
func newAwaitStore(cfg *config.Config, log *zap.Logger) (repository.AwaitStore, []io.Closer, error) {
	switch cfg.AwaitStore {
	case config.AwaitStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, multierr.Append(err, client.Close())
		}
		log.Info("Using redis await store", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisAwaitStore(client, cfg.AwaitTTL, log), []io.Closer{client}, nil

	case config.AwaitStoreSQLite:
		db, err := database.InitDatabase(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.CreateTables(db, log); err != nil {
			return nil, nil, multierr.Append(err, db.Close())
		}
		return repository.NewSQLiteAwaitStore(db, cfg.AwaitTTL, log), []io.Closer{db}, nil

	default:
		log.Info("Using in-memory await store")
		return repository.NewMemoryAwaitStore(cfg.AwaitTTL), nil, nil
	}
}
