package domain

import (
	"fmt"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
)

var (
	ErrGrantNotFound     = fmt.Errorf("no active verification: %w", errs.ErrNotFound)
	ErrMissingParameters = fmt.Errorf("missing uid, file_id or code: %w", errs.ErrValidation)
	ErrInvalidUserID     = fmt.Errorf("invalid user id: %w", errs.ErrValidation)
	ErrInvalidCode       = fmt.Errorf("invalid verification code: %w", errs.ErrAuthorization)
)
