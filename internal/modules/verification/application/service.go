package application

import (
	"context"
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
)

var confirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "verification_confirmations_total",
	Help: "Confirmation callbacks by outcome.",
}, []string{"result"})

// ConfirmRequest carries the raw query parameters of the callback
type ConfirmRequest struct {
	UID    string
	FileID string
	Code   string
}

// VerificationService is the only writer of verification grants.
type VerificationService struct {
	files  filesDomain.FileFinder
	grants domain.GrantRepository
}

func NewVerificationService(files filesDomain.FileFinder, grants domain.GrantRepository) *VerificationService {
	return &VerificationService{files: files, grants: grants}
}

// Confirm validates the callback and creates or renews the grant for
// (uid, file_id) at now. The code is not consumed: repeating the call
// extends the grant.
func (s *VerificationService) Confirm(ctx context.Context, req ConfirmRequest, now time.Time) (*domain.Grant, error) {
	grant, err := s.confirm(ctx, req, now)
	confirmationsTotal.WithLabelValues(outcome(err)).Inc()
	return grant, err
}

func (s *VerificationService) confirm(ctx context.Context, req ConfirmRequest, now time.Time) (*domain.Grant, error) {
	uid, fileID, code := strings.TrimSpace(req.UID), req.FileID, req.Code
	if uid == "" || fileID == "" || code == "" {
		return nil, domain.ErrMissingParameters
	}

	userID, err := strconv.ParseInt(uid, 10, 64)
	if err != nil || userID < 0 {
		return nil, domain.ErrInvalidUserID
	}

	file, err := s.files.FindByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(file.VerificationCode), []byte(code)) != 1 {
		return nil, domain.ErrInvalidCode
	}

	grant := domain.NewGrant(userID, file.FileID, now)
	if err := s.grants.Upsert(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	switch errs.Kind(err) {
	case errs.ErrValidation:
		return "invalid_request"
	case errs.ErrNotFound:
		return "file_not_found"
	case errs.ErrAuthorization:
		return "invalid_code"
	default:
		return "error"
	}
}
