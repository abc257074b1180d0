package chat

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
	accessApp "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/application"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat/application"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat/infrastructure/redis"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat/interfaces/telegram"
	filesApp "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/application"
	"go.uber.org/zap"
)

// Config holds the settings the Chat module needs
type Config struct {
	AdminIDs         []int64
	BotUsername      string
	PendingUploadTTL time.Duration
	StoreTimeout     time.Duration
	PollTimeout      int
	Workers          int
}

// Bot is satisfied by *tgbotapi.BotAPI
type Bot interface {
	telegram.BotAPI
	telegram.UpdateSource
}

// Module represents the Chat module
type Module struct {
	service *application.Service
	handler *telegram.Handler
	poller  *telegram.Poller
}

// NewModule creates and initializes the Chat module
func NewModule(
	registrar *filesApp.Registrar,
	access *accessApp.Controller,
	client goredis.Cmdable,
	bot Bot,
	cfg Config,
	logger *zap.Logger,
) *Module {
	pending := redis.NewPendingUploadStore(client, cfg.PendingUploadTTL, cfg.StoreTimeout)
	service := application.NewService(registrar, access, pending, cfg.AdminIDs, cfg.BotUsername, time.Now, logger.Named("chat"))
	handler := telegram.NewHandler(service, bot, logger.Named("telegram"))

	return &Module{
		service: service,
		handler: handler,
		poller:  telegram.NewPoller(bot, handler, cfg.PollTimeout, cfg.Workers, logger.Named("poller")),
	}
}

// Service returns the chat application service
func (m *Module) Service() *application.Service {
	return m.service
}

// Handler returns the Telegram update handler
func (m *Module) Handler() *telegram.Handler {
	return m.handler
}

// Poller returns the long-polling loop
func (m *Module) Poller() *telegram.Poller {
	return m.poller
}
