package access

import (
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/application"
	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	verificationDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
)

// Module represents the Access module
type Module struct {
	controller *application.Controller
}

// NewModule creates the Access module on top of the file and grant stores
func NewModule(files filesDomain.FileFinder, grants verificationDomain.GrantFinder) *Module {
	return &Module{controller: application.NewController(files, grants)}
}

// Controller returns the access controller
func (m *Module) Controller() *application.Controller {
	return m.controller
}
