package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/database"
)

const keyPrefix = "chat:pending_upload:"

// PendingUploadStore keeps each admin's pending slot in Redis so that
// concurrent admins never share state and restarts do not lose it.
type PendingUploadStore struct {
	client  goredis.Cmdable
	ttl     time.Duration
	timeout time.Duration
}

func NewPendingUploadStore(client goredis.Cmdable, ttl, timeout time.Duration) *PendingUploadStore {
	return &PendingUploadStore{client: client, ttl: ttl, timeout: timeout}
}

func (s *PendingUploadStore) Remember(ctx context.Context, adminID int64, fileID string) error {
	ctx, cancel := database.Bounded(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, key(adminID), fileID, s.ttl).Err(); err != nil {
		return database.Transient("remember pending upload", err)
	}
	return nil
}

func (s *PendingUploadStore) Take(ctx context.Context, adminID int64) (string, error) {
	ctx, cancel := database.Bounded(ctx, s.timeout)
	defer cancel()

	fileID, err := s.client.GetDel(ctx, key(adminID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", domain.ErrNoPendingUpload
	}
	if err != nil {
		return "", database.Transient("take pending upload", err)
	}
	return fileID, nil
}

func (s *PendingUploadStore) Restore(ctx context.Context, adminID int64, fileID string) error {
	ctx, cancel := database.Bounded(ctx, s.timeout)
	defer cancel()

	if err := s.client.SetNX(ctx, key(adminID), fileID, s.ttl).Err(); err != nil {
		return database.Transient(fmt.Sprintf("restore pending upload %s", fileID), err)
	}
	return nil
}

func key(adminID int64) string {
	return keyPrefix + strconv.FormatInt(adminID, 10)
}
