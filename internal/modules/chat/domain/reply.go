package domain

import (
	"context"

	accessDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/domain"
)

// Reply is what the bot shows the user: text plus optional inline actions.
type Reply struct {
	Text    string
	Actions []accessDomain.Action
}

// PendingUploadStore remembers, per admin, the most recent file still waiting
// for its short link. Each admin has a single slot; a new upload overwrites it.
type PendingUploadStore interface {
	Remember(ctx context.Context, adminID int64, fileID string) error
	// Take atomically reads and clears the slot, or returns ErrNoPendingUpload.
	Take(ctx context.Context, adminID int64) (string, error)
	// Restore puts fileID back unless a newer upload already filled the slot.
	Restore(ctx context.Context, adminID int64, fileID string) error
}
