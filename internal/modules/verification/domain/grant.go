package domain

import (
	"context"
	"time"
)

// GrantValidity is how long a successful confirmation unlocks a file.
const GrantValidity = 12 * time.Hour

// Grant is one user's temporary authorization for one file, keyed by
// (UserID, FileID). Re-verification overwrites it.
type Grant struct {
	UserID     int64     `json:"user_id" db:"user_id"`
	FileID     string    `json:"file_id" db:"file_id"`
	VerifiedAt time.Time `json:"verified_at" db:"verified_at"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
}

// NewGrant starts a grant at now, expiring after GrantValidity.
func NewGrant(userID int64, fileID string, now time.Time) *Grant {
	return &Grant{
		UserID:     userID,
		FileID:     fileID,
		VerifiedAt: now,
		ExpiresAt:  now.Add(GrantValidity),
	}
}

// ActiveAt reports whether the grant still unlocks the file at now.
func (g *Grant) ActiveAt(now time.Time) bool {
	return now.Before(g.ExpiresAt)
}

// GrantFinder is the read side used by the access controller
type GrantFinder interface {
	FindActive(ctx context.Context, userID int64, fileID string, now time.Time) (*Grant, error)
}

// GrantRepository persists grants. Upsert is the only write path.
type GrantRepository interface {
	GrantFinder
	Upsert(ctx context.Context, grant *Grant) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
