package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/database"
)

type PgGrantRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewGrantRepository(db *sqlx.DB, timeout time.Duration) *PgGrantRepository {
	return &PgGrantRepository{db: db, timeout: timeout}
}

// Upsert writes the grant, overwriting any earlier one for the same
// (user_id, file_id). Concurrent writers resolve as last writer wins.
func (r *PgGrantRepository) Upsert(ctx context.Context, grant *domain.Grant) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO user_verifications (user_id, file_id, verified_at, expires_at)
		VALUES (:user_id, :file_id, :verified_at, :expires_at)
		ON CONFLICT (user_id, file_id)
		DO UPDATE SET verified_at = EXCLUDED.verified_at, expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.NamedExecContext(ctx, query, grant)
	return database.Transient("grants.upsert", err)
}

// FindActive returns the grant only while expires_at > now.
func (r *PgGrantRepository) FindActive(ctx context.Context, userID int64, fileID string, now time.Time) (*domain.Grant, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT user_id, file_id, verified_at, expires_at
		FROM user_verifications
		WHERE user_id = $1 AND file_id = $2 AND expires_at > $3
	`
	grant := &domain.Grant{}
	err := r.db.GetContext(ctx, grant, query, userID, fileID, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGrantNotFound
	}
	if err != nil {
		return nil, database.Transient("grants.find_active", err)
	}
	return grant, nil
}

// DeleteExpired removes grants that can no longer unlock anything.
func (r *PgGrantRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM user_verifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, database.Transient("grants.delete_expired", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, database.Transient("grants.delete_expired", err)
	}
	return rows, nil
}
