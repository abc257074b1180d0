package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/infrastructure/database"
)

const parsingTokenConstraint = "files_parsing_token_key"

// PgFileRepository implements domain.FileRepository on the files table.
// Every call is bounded by timeout; store failures surface as errs.ErrTransient.
type PgFileRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewFileRepository(db *sqlx.DB, timeout time.Duration) *PgFileRepository {
	return &PgFileRepository{db: db, timeout: timeout}
}

// Create inserts a new file record. CreatedAt defaults to now.
func (r *PgFileRepository) Create(ctx context.Context, file *domain.FileRecord) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO files (file_id, file_name, storage_link, parsing_token, verification_code, short_link, uploaded_by, created_at)
		VALUES (:file_id, :file_name, :storage_link, :parsing_token, :verification_code, :short_link, :uploaded_by, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, file)
	if constraint, ok := database.UniqueViolation(err); ok {
		if constraint == parsingTokenConstraint {
			return domain.ErrParsingTokenTaken
		}
		return domain.ErrDuplicateFile
	}
	return database.Transient("files.create", err)
}

// AttachShortLink binds the short link once. A second attach is a conflict.
func (r *PgFileRepository) AttachShortLink(ctx context.Context, fileID, shortLink string) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx,
		`UPDATE files SET short_link = $2 WHERE file_id = $1 AND short_link IS NULL`,
		fileID, shortLink)
	if err != nil {
		return database.Transient("files.attach_short_link", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return database.Transient("files.attach_short_link", err)
	}
	if rows == 1 {
		return nil
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM files WHERE file_id = $1)`, fileID)
	if err != nil {
		return database.Transient("files.attach_short_link", err)
	}
	if !exists {
		return domain.ErrFileNotFound
	}
	return domain.ErrShortLinkAlreadySet
}

func (r *PgFileRepository) FindByFileID(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	return r.findOne(ctx, "files.find_by_file_id", `SELECT * FROM files WHERE file_id = $1`, fileID)
}

func (r *PgFileRepository) FindByParsingToken(ctx context.Context, token string) (*domain.FileRecord, error) {
	return r.findOne(ctx, "files.find_by_parsing_token", `SELECT * FROM files WHERE parsing_token = $1`, token)
}

func (r *PgFileRepository) findOne(ctx context.Context, op, query string, arg string) (*domain.FileRecord, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	file := &domain.FileRecord{}
	err := r.db.GetContext(ctx, file, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFileNotFound
	}
	if err != nil {
		return nil, database.Transient(op, err)
	}
	return file, nil
}
