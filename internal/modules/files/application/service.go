package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
)

const (
	storageLinkPrefix = "http"
	maxTokenAttempts  = 3
)

// Upload is an admin's file submission
type Upload struct {
	AdminID  int64
	FileID   string
	FileName string
	Caption  string
}

// Registration is what the admin gets back after an upload
type Registration struct {
	File            *domain.FileRecord
	ConfirmationURL string
}

// Registrar owns the file lifecycle: registration, short-link binding and
// deep-link resolution.
type Registrar struct {
	repo          domain.FileRepository
	issuer        *Issuer
	publicBaseURL string
}

func NewRegistrar(repo domain.FileRepository, issuer *Issuer, publicBaseURL string) *Registrar {
	return &Registrar{repo: repo, issuer: issuer, publicBaseURL: publicBaseURL}
}

// Register extracts the storage link from the caption, issues the token and
// code, and creates the record.
func (s *Registrar) Register(ctx context.Context, upload Upload) (*Registration, error) {
	storageLink, ok := ExtractStorageLink(upload.Caption)
	if !ok {
		return nil, domain.ErrMissingStorageLink
	}

	code, err := s.issuer.IssueVerificationCode()
	if err != nil {
		return nil, err
	}

	file := &domain.FileRecord{
		FileID:           upload.FileID,
		FileName:         upload.FileName,
		StorageLink:      storageLink,
		VerificationCode: code,
		UploadedBy:       upload.AdminID,
	}

	for attempt := 1; ; attempt++ {
		file.ParsingToken, err = s.issuer.IssueParsingToken(upload.FileName)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, file)
		if !errors.Is(err, domain.ErrParsingTokenTaken) || attempt == maxTokenAttempts {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", upload.FileID, err)
	}

	return s.registration(file), nil
}

// Reopen hands an admin back the registration of a file they uploaded but
// never bound, so a re-upload can resume binding it. The record is not
// modified; any other duplicate stays a conflict.
func (s *Registrar) Reopen(ctx context.Context, upload Upload) (*Registration, error) {
	file, err := s.repo.FindByFileID(ctx, upload.FileID)
	if err != nil {
		return nil, err
	}
	if file.UploadedBy != upload.AdminID || file.HasShortLink() {
		return nil, domain.ErrDuplicateFile
	}
	return s.registration(file), nil
}

func (s *Registrar) registration(file *domain.FileRecord) *Registration {
	return &Registration{
		File:            file,
		ConfirmationURL: s.issuer.BuildConfirmationURL(s.publicBaseURL, UserIDPlaceholder, file.FileID, file.VerificationCode),
	}
}

// AttachShortLink validates and binds the monetized redirect to fileID and
// returns the updated record. Sending the link that is already bound succeeds
// again, so a bind whose reply was lost can be repeated.
func (s *Registrar) AttachShortLink(ctx context.Context, fileID, shortLink string) (*domain.FileRecord, error) {
	shortLink = strings.TrimSpace(shortLink)
	if !isHTTPURL(shortLink) {
		return nil, domain.ErrInvalidShortLink
	}
	err := s.repo.AttachShortLink(ctx, fileID, shortLink)
	if err != nil && !errors.Is(err, domain.ErrShortLinkAlreadySet) {
		return nil, err
	}

	file, findErr := s.repo.FindByFileID(ctx, fileID)
	if findErr != nil {
		return nil, findErr
	}
	if err != nil && (!file.HasShortLink() || *file.ShortLink != shortLink) {
		return nil, err
	}
	return file, nil
}

// Resolve maps a deep-link token to its file. Tokens outside the allow-list
// cannot exist, so they are reported as not found without a store call.
func (s *Registrar) Resolve(ctx context.Context, token string) (*domain.FileRecord, error) {
	if !ValidParsingToken(token) {
		return nil, domain.ErrFileNotFound
	}
	return s.repo.FindByParsingToken(ctx, token)
}

// ExtractStorageLink returns the first whitespace separated caption token
// that starts with the URL scheme prefix.
func ExtractStorageLink(caption string) (string, bool) {
	for _, word := range strings.Fields(caption) {
		if strings.HasPrefix(word, storageLinkPrefix) {
			return word, true
		}
	}
	return "", false
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
