package application_test

import (
	"context"
	"sync"
	"time"

	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
)

type fileFinderStub struct {
	files map[string]*filesDomain.FileRecord
	err   error
}

func (s *fileFinderStub) FindByFileID(_ context.Context, fileID string) (*filesDomain.FileRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	f, ok := s.files[fileID]
	if !ok {
		return nil, filesDomain.ErrFileNotFound
	}
	return f, nil
}

func (s *fileFinderStub) FindByParsingToken(_ context.Context, token string) (*filesDomain.FileRecord, error) {
	for _, f := range s.files {
		if f.ParsingToken == token {
			return f, nil
		}
	}
	return nil, filesDomain.ErrFileNotFound
}

type grantKey struct {
	userID int64
	fileID string
}

// memoryGrants mirrors the upsert and expiry semantics of the postgres repository.
type memoryGrants struct {
	mu        sync.Mutex
	grants    map[grantKey]domain.Grant
	upsertErr error
}

func newMemoryGrants() *memoryGrants {
	return &memoryGrants{grants: make(map[grantKey]domain.Grant)}
}

func (m *memoryGrants) Upsert(_ context.Context, g *domain.Grant) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[grantKey{g.UserID, g.FileID}] = *g
	return nil
}

func (m *memoryGrants) FindActive(_ context.Context, userID int64, fileID string, now time.Time) (*domain.Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[grantKey{userID, fileID}]
	if !ok || !g.ExpiresAt.After(now) {
		return nil, domain.ErrGrantNotFound
	}
	return &g, nil
}

func (m *memoryGrants) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, g := range m.grants {
		if !g.ExpiresAt.After(now) {
			delete(m.grants, k)
			n++
		}
	}
	return n, nil
}

func (m *memoryGrants) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.grants)
}
