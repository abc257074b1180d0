package files

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/application"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/infrastructure/persistence/postgres"
)

// Module represents the Files module
type Module struct {
	repository *postgres.PgFileRepository
	registrar  *application.Registrar
}

// NewModule creates and initializes the Files module
func NewModule(db *sqlx.DB, storeTimeout time.Duration, publicBaseURL string) *Module {
	repository := postgres.NewFileRepository(db, storeTimeout)
	registrar := application.NewRegistrar(repository, application.NewIssuer(), publicBaseURL)

	return &Module{
		repository: repository,
		registrar:  registrar,
	}
}

// FileFinder returns the read side of the store for other modules (Access, Verification)
func (m *Module) FileFinder() domain.FileFinder {
	return m.repository
}

// Registrar returns the file lifecycle service used by the chat module
func (m *Module) Registrar() *application.Registrar {
	return m.registrar
}
