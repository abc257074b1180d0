package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/gateway"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/config"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/database"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/logging"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/pkg/migration"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Log.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("application stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("application stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected", zap.String("host", cfg.Database.Host))

	if err := migration.AutoMigrate(cfg.Database.URL(), cfg.MigrationsPath, logger); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	if cfg.Telegram.BotUsername == "" {
		cfg.Telegram.BotUsername = bot.Self.UserName
	}
	if len(cfg.Telegram.AdminIDs) == 0 {
		logger.Warn("ADMIN_IDS is empty, nobody can upload files")
	}
	logger.Info("telegram bot authorized", zap.String("username", cfg.Telegram.BotUsername))

	app := newApp(cfg, db, rdb, bot, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.server.Run(gctx) })
	g.Go(func() error { return app.chat.Poller().Run(gctx) })
	g.Go(func() error { return app.verification.Janitor().Run(gctx) })
	return g.Wait()
}

type app struct {
	handler      http.Handler
	server       *gateway.Server
	chat         *chat.Module
	verification *verification.Module
}

// newApp wires the modules together. It performs no I/O.
func newApp(cfg config.Config, db *sqlx.DB, rdb goredis.Cmdable, bot chat.Bot, logger *zap.Logger) *app {
	storeTimeout := cfg.Verification.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = database.DefaultStoreTimeout
	}

	filesModule := files.NewModule(db, storeTimeout, cfg.Server.PublicBaseURL)
	verificationModule := verification.NewModule(db, filesModule.FileFinder(), verification.Config{
		StoreTimeout:    storeTimeout,
		CleanupInterval: cfg.Verification.CleanupInterval,
		BotUsername:     cfg.Telegram.BotUsername,
	}, logger)
	accessModule := access.NewModule(filesModule.FileFinder(), verificationModule.GrantFinder())
	chatModule := chat.NewModule(filesModule.Registrar(), accessModule.Controller(), rdb, bot, chat.Config{
		AdminIDs:         cfg.Telegram.AdminIDs,
		BotUsername:      cfg.Telegram.BotUsername,
		PendingUploadTTL: cfg.Verification.PendingUploadTTL,
		StoreTimeout:     storeTimeout,
		PollTimeout:      cfg.Telegram.PollTimeout,
		Workers:          cfg.Telegram.Workers,
	}, logger)

	handler := gateway.SetupRoutes(gateway.RouterConfig{
		VerificationHandler: verificationModule.HTTPHandler(),
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		Logger:              logger.Named("http"),
	})

	return &app{
		handler:      handler,
		server:       gateway.NewServer(cfg.Server.Port, handler, logger.Named("server")),
		chat:         chatModule,
		verification: verificationModule,
	}
}

