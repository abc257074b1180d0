package domain

import (
	"context"
	"time"
)

// FileRecord is one admin-registered downloadable item. Everything except
// ShortLink is fixed at creation; ShortLink is attached exactly once.
type FileRecord struct {
	FileID           string    `json:"file_id" db:"file_id"`
	FileName         string    `json:"file_name" db:"file_name"`
	StorageLink      string    `json:"storage_link" db:"storage_link"`
	ParsingToken     string    `json:"parsing_token" db:"parsing_token"`
	VerificationCode string    `json:"-" db:"verification_code"`
	ShortLink        *string   `json:"short_link,omitempty" db:"short_link"`
	UploadedBy       int64     `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// HasShortLink reports whether the admin finished configuring the file
func (f *FileRecord) HasShortLink() bool {
	return f.ShortLink != nil && *f.ShortLink != ""
}

// FileFinder is the read side of the file store, used by other modules
type FileFinder interface {
	FindByFileID(ctx context.Context, fileID string) (*FileRecord, error)
	FindByParsingToken(ctx context.Context, token string) (*FileRecord, error)
}

// FileRepository persists file records
type FileRepository interface {
	FileFinder
	Create(ctx context.Context, file *FileRecord) error
	AttachShortLink(ctx context.Context, fileID, shortLink string) error
}
