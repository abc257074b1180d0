package verification

import (
	"time"

	"github.com/jmoiron/sqlx"
	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/application"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/infrastructure/persistence/postgres"
	verification_http "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/interfaces/http"
	"go.uber.org/zap"
)

// Config holds the settings the Verification module needs
type Config struct {
	StoreTimeout    time.Duration
	CleanupInterval time.Duration
	BotUsername     string
}

// Module represents the Verification module
type Module struct {
	repository *postgres.PgGrantRepository
	service    *application.VerificationService
	janitor    *application.Janitor
	handler    *verification_http.VerificationHandler
}

// NewModule creates and initializes the Verification module
func NewModule(db *sqlx.DB, files filesDomain.FileFinder, cfg Config, logger *zap.Logger) *Module {
	repository := postgres.NewGrantRepository(db, cfg.StoreTimeout)
	service := application.NewVerificationService(files, repository)

	return &Module{
		repository: repository,
		service:    service,
		janitor:    application.NewJanitor(repository, cfg.CleanupInterval, time.Now, logger.Named("janitor")),
		handler:    verification_http.NewVerificationHandler(service, cfg.BotUsername, time.Now, logger.Named("verification")),
	}
}

// GrantFinder returns the read side of the grant store for the Access module
func (m *Module) GrantFinder() domain.GrantFinder {
	return m.repository
}

// Janitor returns the expired-grant sweeper
func (m *Module) Janitor() *application.Janitor {
	return m.janitor
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *verification_http.VerificationHandler {
	return m.handler
}
