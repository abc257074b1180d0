package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
)

func TestBounded_DefaultsNonPositiveTimeout(t *testing.T) {
	ctx, cancel := Bounded(context.Background(), 0)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultStoreTimeout), deadline, time.Second)
}

func TestTransient(t *testing.T) {
	assert.NoError(t, Transient("op", nil))

	notFound := fmt.Errorf("file not found: %w", errs.ErrNotFound)
	assert.Same(t, notFound, Transient("op", notFound))

	err := Transient("files.create", context.DeadlineExceeded)
	assert.ErrorIs(t, err, errs.ErrTransient)
	assert.Contains(t, err.Error(), "timed out")

	err = Transient("files.create", errors.New("connection refused"))
	assert.ErrorIs(t, err, errs.ErrTransient)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUniqueViolation(t *testing.T) {
	constraint, ok := UniqueViolation(&pq.Error{Code: "23505", Constraint: "files_pkey"})
	assert.True(t, ok)
	assert.Equal(t, "files_pkey", constraint)

	_, ok = UniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23503"}))
	assert.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}
