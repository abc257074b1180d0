package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/application"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/domain"
	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	verificationDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
)

type MockFileFinder struct {
	mock.Mock
}

func (m *MockFileFinder) FindByFileID(ctx context.Context, fileID string) (*filesDomain.FileRecord, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.FileRecord), args.Error(1)
}

func (m *MockFileFinder) FindByParsingToken(ctx context.Context, token string) (*filesDomain.FileRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.FileRecord), args.Error(1)
}

type MockGrantFinder struct {
	mock.Mock
}

func (m *MockGrantFinder) FindActive(ctx context.Context, userID int64, fileID string, now time.Time) (*verificationDomain.Grant, error) {
	args := m.Called(ctx, userID, fileID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verificationDomain.Grant), args.Error(1)
}

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func configuredFile() *filesDomain.FileRecord {
	short := "http://short.example/abc"
	return &filesDomain.FileRecord{
		FileID:       "f1",
		FileName:     "report.pdf",
		StorageLink:  "http://store.example/f1",
		ParsingToken: "report_pdf_x",
		ShortLink:    &short,
	}
}

func TestController_FileUnknown(t *testing.T) {
	files := new(MockFileFinder)
	grants := new(MockGrantFinder)
	files.On("FindByFileID", mock.Anything, "missing").Return(nil, filesDomain.ErrFileNotFound)

	c := application.NewController(files, grants)

	for name, call := range map[string]func() (domain.Decision, error){
		"evaluate": func() (domain.Decision, error) { return c.Evaluate(context.Background(), 42, "missing", now) },
		"enter":    func() (domain.Decision, error) { return c.Enter(context.Background(), 42, "missing", now) },
		"retry":    func() (domain.Decision, error) { return c.Retry(context.Background(), 42, "missing", now) },
	} {
		t.Run(name, func(t *testing.T) {
			decision, err := call()
			require.NoError(t, err)
			assert.Equal(t, domain.StateFileUnknown, decision.State)
			assert.Equal(t, "missing", decision.FileID)
			assert.Empty(t, decision.Actions)
		})
	}
	grants.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestController_AwaitingShortLink(t *testing.T) {
	files := new(MockFileFinder)
	grants := new(MockGrantFinder)
	file := configuredFile()
	file.ShortLink = nil
	files.On("FindByFileID", mock.Anything, "f1").Return(file, nil)

	c := application.NewController(files, grants)

	decision, err := c.Retry(context.Background(), 42, "f1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingShortLink, decision.State)
	assert.Equal(t, "report.pdf", decision.FileName)
	assert.Empty(t, decision.Actions)
	grants.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestController_Unverified(t *testing.T) {
	files := new(MockFileFinder)
	grants := new(MockGrantFinder)
	files.On("FindByFileID", mock.Anything, "f1").Return(configuredFile(), nil)
	grants.On("FindActive", mock.Anything, int64(42), "f1", now).Return(nil, verificationDomain.ErrGrantNotFound)

	c := application.NewController(files, grants)
	want := []domain.Action{
		domain.Verify("http://short.example/abc"),
		domain.Retry("f1"),
	}

	entered, err := c.Enter(context.Background(), 42, "f1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StateUnverified, entered.State)
	assert.Equal(t, want, entered.Actions)

	retried, err := c.Retry(context.Background(), 42, "f1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StateUnverified, retried.State)
	assert.Equal(t, want, retried.Actions)
}

func TestController_Verified(t *testing.T) {
	files := new(MockFileFinder)
	grants := new(MockGrantFinder)
	files.On("FindByFileID", mock.Anything, "f1").Return(configuredFile(), nil)
	grants.On("FindActive", mock.Anything, int64(42), "f1", now).Return(verificationDomain.NewGrant(42, "f1", now.Add(-time.Hour)), nil)

	c := application.NewController(files, grants)

	entered, err := c.Enter(context.Background(), 42, "f1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StateVerified, entered.State)
	assert.Equal(t, []domain.Action{domain.Retry("f1")}, entered.Actions)

	retried, err := c.Retry(context.Background(), 42, "f1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StateVerified, retried.State)
	require.Len(t, retried.Actions, 1)
	assert.Equal(t, domain.ActionDownload, retried.Actions[0].Kind)
	assert.Equal(t, "http://store.example/f1", retried.Actions[0].URL)
	assert.True(t, retried.Actions[0].External())
}

func TestController_GrantExpiryIsMonotonic(t *testing.T) {
	files := new(MockFileFinder)
	grants := new(MockGrantFinder)
	grant := verificationDomain.NewGrant(42, "f1", now)
	files.On("FindByFileID", mock.Anything, "f1").Return(configuredFile(), nil)
	offsets := []time.Duration{0, time.Hour, 11 * time.Hour, 12 * time.Hour, 13 * time.Hour, 48 * time.Hour}
	for _, offset := range offsets {
		at := now.Add(offset)
		if grant.ActiveAt(at) {
			grants.On("FindActive", mock.Anything, int64(42), "f1", at).Return(grant, nil)
		} else {
			grants.On("FindActive", mock.Anything, int64(42), "f1", at).Return(nil, verificationDomain.ErrGrantNotFound)
		}
	}

	c := application.NewController(files, grants)

	// once unverified, a later instant never flips back without a new grant
	seenUnverified := false
	for _, offset := range offsets {
		decision, err := c.Evaluate(context.Background(), 42, "f1", now.Add(offset))
		require.NoError(t, err)
		if decision.State == domain.StateUnverified {
			seenUnverified = true
			continue
		}
		assert.False(t, seenUnverified, "verified again at +%s", offset)
		assert.Equal(t, domain.StateVerified, decision.State)
	}
	assert.True(t, seenUnverified)
}

func TestController_StoreFailuresPropagate(t *testing.T) {
	transient := fmt.Errorf("find grant: %w", errs.ErrTransient)

	t.Run("file store", func(t *testing.T) {
		files := new(MockFileFinder)
		files.On("FindByFileID", mock.Anything, "f1").Return(nil, transient)
		c := application.NewController(files, new(MockGrantFinder))

		_, err := c.Retry(context.Background(), 42, "f1", now)
		assert.True(t, errors.Is(err, errs.ErrTransient))
	})

	t.Run("grant store", func(t *testing.T) {
		files := new(MockFileFinder)
		grants := new(MockGrantFinder)
		files.On("FindByFileID", mock.Anything, "f1").Return(configuredFile(), nil)
		grants.On("FindActive", mock.Anything, int64(42), "f1", now).Return(nil, transient)
		c := application.NewController(files, grants)

		_, err := c.Enter(context.Background(), 42, "f1", now)
		assert.True(t, errors.Is(err, errs.ErrTransient))
	})
}
