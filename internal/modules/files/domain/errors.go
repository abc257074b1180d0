package domain

import (
	"fmt"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
)

var (
	ErrFileNotFound        = fmt.Errorf("file not found: %w", errs.ErrNotFound)
	ErrDuplicateFile       = fmt.Errorf("file already registered: %w", errs.ErrConflict)
	ErrParsingTokenTaken   = fmt.Errorf("parsing token already in use: %w", errs.ErrConflict)
	ErrShortLinkAlreadySet = fmt.Errorf("short link already attached: %w", errs.ErrConflict)
	ErrMissingStorageLink  = fmt.Errorf("caption has no storage link: %w", errs.ErrValidation)
	ErrInvalidShortLink    = fmt.Errorf("short link must be an http(s) URL: %w", errs.ErrValidation)
)
