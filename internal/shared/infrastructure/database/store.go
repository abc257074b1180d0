package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
)

// DefaultStoreTimeout bounds a single repository call when none is configured.
const DefaultStoreTimeout = 5 * time.Second

const uniqueViolation = "23505"

// Bounded derives a context that expires after timeout, falling back to
// DefaultStoreTimeout for non-positive values.
func Bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Transient wraps an unexpected store failure as errs.ErrTransient.
// Errors that already carry a kind are returned untouched.
func Transient(op string, err error) error {
	if err == nil || errs.Kind(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: timed out: %w", op, errs.ErrTransient)
	}
	return fmt.Errorf("%s: %w: %v", op, errs.ErrTransient, err)
}

// UniqueViolation reports whether err is a postgres unique violation and,
// if so, which constraint was hit.
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}
