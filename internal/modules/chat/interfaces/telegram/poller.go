package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// UpdateSource is the long-polling side of *tgbotapi.BotAPI
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller pulls updates and hands each one to the handler on its own
// goroutine, with at most workers in flight.
type Poller struct {
	source  UpdateSource
	handler *Handler
	timeout int
	workers int64
	logger  *zap.Logger
}

func NewPoller(source UpdateSource, handler *Handler, timeout, workers int, logger *zap.Logger) *Poller {
	if workers < 1 {
		workers = 1
	}
	return &Poller{
		source:  source,
		handler: handler,
		timeout: timeout,
		workers: int64(workers),
		logger:  logger,
	}
}

// Run polls until ctx is cancelled, then waits for in-flight updates.
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	updates := p.source.GetUpdatesChan(cfg)

	sem := semaphore.NewWeighted(p.workers)
	// in-flight updates finish on shutdown; store calls carry their own timeout
	handlerCtx := context.WithoutCancel(ctx)
	p.logger.Info("polling for updates", zap.Int64("workers", p.workers))

	defer func() {
		p.source.StopReceivingUpdates()
		// drain: acquiring every slot means all handlers returned
		_ = sem.Acquire(context.Background(), p.workers)
		p.logger.Info("poller stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			go func() {
				defer sem.Release(1)
				p.handler.HandleUpdate(handlerCtx, update)
			}()
		}
	}
}
