package application

import (
	"context"
	"errors"
	"time"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/domain"
	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	verificationDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
)

// Controller decides what a user may do with a file. It holds no state:
// every answer is read fresh from the stores.
type Controller struct {
	files  filesDomain.FileFinder
	grants verificationDomain.GrantFinder
}

func NewController(files filesDomain.FileFinder, grants verificationDomain.GrantFinder) *Controller {
	return &Controller{files: files, grants: grants}
}

// Evaluate computes the state of (userID, fileID) at now without any actions.
// Only store failures are returned as errors; an unknown file is a state.
func (c *Controller) Evaluate(ctx context.Context, userID int64, fileID string, now time.Time) (domain.Decision, error) {
	decision, _, err := c.evaluate(ctx, userID, fileID, now)
	return decision, err
}

// Enter is the deep-link view. Verified users get {Retry} so the download
// is only released on an explicit re-check.
func (c *Controller) Enter(ctx context.Context, userID int64, fileID string, now time.Time) (domain.Decision, error) {
	decision, file, err := c.evaluate(ctx, userID, fileID, now)
	if err != nil {
		return domain.Decision{}, err
	}

	switch decision.State {
	case domain.StateVerified:
		decision.Actions = []domain.Action{domain.Retry(file.FileID)}
	case domain.StateUnverified:
		decision.Actions = []domain.Action{domain.Verify(*file.ShortLink), domain.Retry(file.FileID)}
	}
	return decision, nil
}

// Retry re-evaluates from scratch; a verified user gets the storage link.
func (c *Controller) Retry(ctx context.Context, userID int64, fileID string, now time.Time) (domain.Decision, error) {
	decision, file, err := c.evaluate(ctx, userID, fileID, now)
	if err != nil {
		return domain.Decision{}, err
	}

	switch decision.State {
	case domain.StateVerified:
		decision.Actions = []domain.Action{domain.Download(file.StorageLink)}
	case domain.StateUnverified:
		decision.Actions = []domain.Action{domain.Verify(*file.ShortLink), domain.Retry(file.FileID)}
	}
	return decision, nil
}

func (c *Controller) evaluate(ctx context.Context, userID int64, fileID string, now time.Time) (domain.Decision, *filesDomain.FileRecord, error) {
	file, err := c.files.FindByFileID(ctx, fileID)
	if errors.Is(err, filesDomain.ErrFileNotFound) {
		return domain.Decision{State: domain.StateFileUnknown, FileID: fileID}, nil, nil
	}
	if err != nil {
		return domain.Decision{}, nil, err
	}

	decision := domain.Decision{FileID: file.FileID, FileName: file.FileName}
	if !file.HasShortLink() {
		decision.State = domain.StateAwaitingShortLink
		return decision, file, nil
	}

	_, err = c.grants.FindActive(ctx, userID, file.FileID, now)
	switch {
	case err == nil:
		decision.State = domain.StateVerified
	case errors.Is(err, verificationDomain.ErrGrantNotFound):
		decision.State = domain.StateUnverified
	default:
		return domain.Decision{}, nil, err
	}
	return decision, file, nil
}
