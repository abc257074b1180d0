package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	accessApp "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/application"
	accessDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat/domain"
	filesApp "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/application"
	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
	"go.uber.org/zap"
)

const (
	welcomeText = "👋 Welcome to the File Store Bot!\n\n" +
		"📥 Admins: send a file with its storage link in the caption to get a share link.\n" +
		"🔗 Then send the short link as a plain text message.\n\n" +
		"👤 Users: open the share link you were given to verify and download.\n\n" +
		"Use /help to see commands."
	helpText = "📚 Bot commands:\n\n" +
		"/start - show the welcome message\n" +
		"/help - show this message\n\n" +
		"Send a file with a storage link as caption (admins only)\n" +
		"Send the short link as text after uploading (admins only)\n\n" +
		"Users open the shared link to verify and download."

	fileUnknownText       = "❌ File not found or expired."
	awaitingShortLinkText = "⚠️ Short link not set yet by admin. Please try later."
	alreadyVerifiedText   = "🟢 You are already verified for this file.\nClick Retry to get your file download link."
	verifyText            = "🔐 Please verify by clicking below:"
	verifyAgainText       = "⚠️ You need to verify again by clicking Verify below:"
	downloadText          = "📦 Here is your file download link:"
)

// Service is the transport-agnostic chat surface. Every method returns a
// renderable Reply; failures are converted to user messages and logged.
type Service struct {
	registrar   *filesApp.Registrar
	access      *accessApp.Controller
	pending     domain.PendingUploadStore
	admins      map[int64]struct{}
	botUsername string
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(
	registrar *filesApp.Registrar,
	access *accessApp.Controller,
	pending domain.PendingUploadStore,
	adminIDs []int64,
	botUsername string,
	now func() time.Time,
	logger *zap.Logger,
) *Service {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Service{
		registrar:   registrar,
		access:      access,
		pending:     pending,
		admins:      admins,
		botUsername: botUsername,
		now:         now,
		logger:      logger,
	}
}

func (s *Service) IsAdmin(userID int64) bool {
	_, ok := s.admins[userID]
	return ok
}

func (s *Service) Welcome() domain.Reply {
	return domain.Reply{Text: welcomeText}
}

func (s *Service) Help() domain.Reply {
	return domain.Reply{Text: helpText}
}

// Upload registers an admin's file and arms the admin's pending slot so the
// next plain text is taken as its short link. Re-uploading an own file that
// has no short link yet re-arms the slot for the existing record.
func (s *Service) Upload(ctx context.Context, upload filesApp.Upload) domain.Reply {
	if !s.IsAdmin(upload.AdminID) {
		return s.fail("upload", domain.ErrPermissionDenied)
	}

	reg, err := s.registrar.Register(ctx, upload)
	if errors.Is(err, filesDomain.ErrDuplicateFile) {
		reg, err = s.registrar.Reopen(ctx, upload)
	}
	if err != nil {
		return s.fail("upload", err)
	}

	text := fmt.Sprintf("🔗 Parsing token generated:\n%s\n\n🔐 Verification link generated:\n%s\n\n",
		reg.File.ParsingToken, reg.ConfirmationURL)

	if err := s.pending.Remember(ctx, upload.AdminID, reg.File.FileID); err != nil {
		s.logger.Error("failed to remember pending upload",
			zap.Int64("admin_id", upload.AdminID),
			zap.String("file_id", reg.File.FileID),
			zap.Error(err))
		return domain.Reply{Text: text + "⚠️ Could not start waiting for the short link. Please try again in a moment."}
	}

	return domain.Reply{Text: text + "⚙️ Waiting for short link..."}
}

// BindShortLink attaches text as the short link of the admin's pending upload
// and answers with the link to share with users.
func (s *Service) BindShortLink(ctx context.Context, adminID int64, text string) domain.Reply {
	if !s.IsAdmin(adminID) {
		return s.fail("bind short link", domain.ErrPermissionDenied)
	}

	fileID, err := s.pending.Take(ctx, adminID)
	if err != nil {
		return s.fail("bind short link", err)
	}

	file, err := s.registrar.AttachShortLink(ctx, fileID, text)
	if err != nil {
		if errors.Is(err, filesDomain.ErrInvalidShortLink) || errors.Is(err, errs.ErrTransient) {
			if restoreErr := s.pending.Restore(ctx, adminID, fileID); restoreErr != nil {
				s.logger.Error("failed to restore pending upload",
					zap.Int64("admin_id", adminID),
					zap.String("file_id", fileID),
					zap.Error(restoreErr))
			}
		}
		return s.fail("bind short link", err)
	}

	return domain.Reply{Text: fmt.Sprintf("✅ File added successfully!\n\n📨 Share this link with users:\n%s",
		s.ShareLink(file.ParsingToken))}
}

// ShareLink is the deep link that opens the bot with token as start parameter.
func (s *Service) ShareLink(token string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", s.botUsername, token)
}

// OpenDeepLink resolves a shared token and shows the user's options for it.
func (s *Service) OpenDeepLink(ctx context.Context, userID int64, token string) domain.Reply {
	file, err := s.registrar.Resolve(ctx, token)
	if err != nil {
		return s.fail("open deep link", err)
	}

	decision, err := s.access.Enter(ctx, userID, file.FileID, s.now())
	if err != nil {
		return s.fail("open deep link", err)
	}
	return render(decision, false)
}

// Retry re-checks the user's standing and, once verified, hands out the download.
func (s *Service) Retry(ctx context.Context, userID int64, fileID string) domain.Reply {
	decision, err := s.access.Retry(ctx, userID, fileID, s.now())
	if err != nil {
		return s.fail("retry", err)
	}
	return render(decision, true)
}

func (s *Service) fail(op string, err error) domain.Reply {
	if errors.Is(err, errs.ErrTransient) || errs.Kind(err) == nil {
		s.logger.Error("chat operation failed", zap.String("op", op), zap.Error(err))
	} else {
		s.logger.Debug("chat operation rejected", zap.String("op", op), zap.Error(err))
	}
	return ReplyFor(err)
}

func render(decision accessDomain.Decision, retrying bool) domain.Reply {
	reply := domain.Reply{Actions: decision.Actions}

	switch decision.State {
	case accessDomain.StateFileUnknown:
		reply.Text = fileUnknownText
	case accessDomain.StateAwaitingShortLink:
		reply.Text = awaitingShortLinkText
	case accessDomain.StateVerified:
		reply.Text = alreadyVerifiedText
		if retrying {
			reply.Text = downloadText
		}
	case accessDomain.StateUnverified:
		reply.Text = verifyText
		if retrying {
			reply.Text = verifyAgainText
		}
	}
	return reply
}

// ReplyFor converts a failure into the message shown to the user.
func ReplyFor(err error) domain.Reply {
	var text string

	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		text = "❌ You are not authorized to do that."
	case errors.Is(err, domain.ErrNoPendingUpload):
		text = "⚠️ Please upload a file first to associate the short link with."
	case errors.Is(err, filesDomain.ErrMissingStorageLink):
		text = "⚠️ Please include the storage link in the caption."
	case errors.Is(err, filesDomain.ErrInvalidShortLink):
		text = "⚠️ The short link must be a full http(s) URL. Please send it again."
	case errors.Is(err, filesDomain.ErrShortLinkAlreadySet):
		text = "⚠️ This file already has a short link."
	case errors.Is(err, filesDomain.ErrDuplicateFile):
		text = "⚠️ This file is already registered."
	case errors.Is(err, errs.ErrNotFound):
		text = fileUnknownText
	default:
		text = "⚠️ Something went wrong. Please try again in a moment."
	}
	return domain.Reply{Text: text}
}
