package application_test

import (
	"context"
	"sync"
	"time"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat/domain"
	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	verificationDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
)

// memoryFiles mirrors the constraints of the postgres file repository.
type memoryFiles struct {
	mu        sync.Mutex
	files     map[string]filesDomain.FileRecord
	attachErr error
	findErr   error
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{files: make(map[string]filesDomain.FileRecord)}
}

func (m *memoryFiles) Create(_ context.Context, file *filesDomain.FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[file.FileID]; ok {
		return filesDomain.ErrDuplicateFile
	}
	for _, f := range m.files {
		if f.ParsingToken == file.ParsingToken {
			return filesDomain.ErrParsingTokenTaken
		}
	}
	m.files[file.FileID] = *file
	return nil
}

func (m *memoryFiles) AttachShortLink(_ context.Context, fileID, shortLink string) error {
	if m.attachErr != nil {
		return m.attachErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[fileID]
	if !ok {
		return filesDomain.ErrFileNotFound
	}
	if f.HasShortLink() {
		return filesDomain.ErrShortLinkAlreadySet
	}
	f.ShortLink = &shortLink
	m.files[fileID] = f
	return nil
}

func (m *memoryFiles) FindByFileID(_ context.Context, fileID string) (*filesDomain.FileRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[fileID]
	if !ok {
		return nil, filesDomain.ErrFileNotFound
	}
	return &f, nil
}

func (m *memoryFiles) FindByParsingToken(_ context.Context, token string) (*filesDomain.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.ParsingToken == token {
			return &f, nil
		}
	}
	return nil, filesDomain.ErrFileNotFound
}

type grantKey struct {
	userID int64
	fileID string
}

type memoryGrants struct {
	mu     sync.Mutex
	grants map[grantKey]verificationDomain.Grant
}

func newMemoryGrants() *memoryGrants {
	return &memoryGrants{grants: make(map[grantKey]verificationDomain.Grant)}
}

func (m *memoryGrants) Upsert(_ context.Context, g *verificationDomain.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[grantKey{g.UserID, g.FileID}] = *g
	return nil
}

func (m *memoryGrants) FindActive(_ context.Context, userID int64, fileID string, now time.Time) (*verificationDomain.Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[grantKey{userID, fileID}]
	if !ok || !g.ActiveAt(now) {
		return nil, verificationDomain.ErrGrantNotFound
	}
	return &g, nil
}

func (m *memoryGrants) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, g := range m.grants {
		if !g.ActiveAt(now) {
			delete(m.grants, k)
			n++
		}
	}
	return n, nil
}

// memoryPending follows the Redis store: Take clears, Restore only fills an empty slot.
type memoryPending struct {
	mu    sync.Mutex
	slots map[int64]string
	err   error
}

func newMemoryPending() *memoryPending {
	return &memoryPending{slots: make(map[int64]string)}
}

func (m *memoryPending) Remember(_ context.Context, adminID int64, fileID string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[adminID] = fileID
	return nil
}

func (m *memoryPending) Take(_ context.Context, adminID int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fileID, ok := m.slots[adminID]
	if !ok {
		return "", domain.ErrNoPendingUpload
	}
	delete(m.slots, adminID)
	return fileID, nil
}

func (m *memoryPending) Restore(_ context.Context, adminID int64, fileID string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[adminID]; !ok {
		m.slots[adminID] = fileID
	}
	return nil
}

func (m *memoryPending) slot(adminID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fileID, ok := m.slots[adminID]
	return fileID, ok
}
