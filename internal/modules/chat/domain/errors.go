package domain

import (
	"fmt"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
)

var (
	ErrNoPendingUpload  = fmt.Errorf("no upload waiting for a short link: %w", errs.ErrValidation)
	ErrPermissionDenied = fmt.Errorf("admin only: %w", errs.ErrAuthorization)
)
