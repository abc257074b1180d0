package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	filesDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/application"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/errs"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/shared/utils"
	"go.uber.org/zap"
)

// VerificationService defines the confirmation operation used by the handler
type VerificationService interface {
	Confirm(ctx context.Context, req application.ConfirmRequest, now time.Time) (*domain.Grant, error)
}

var successPage = template.Must(template.New("verified").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Verified</title></head>
<body style="text-align:center; font-family: Arial, sans-serif; margin-top: 50px;">
	<h2>Verification successful!</h2>
	<p>You can now return to the Telegram bot and press <strong>"Retry"</strong> to download your file.</p>
	<p>Access stays open until {{.ExpiresAt}}.</p>
	{{if .BotURL}}<a href="{{.BotURL}}" style="text-decoration:none; font-size:18px;">Return to bot</a>{{end}}
</body>
</html>
`))

type VerificationHandler struct {
	service VerificationService
	botURL  string
	now     func() time.Time
	logger  *zap.Logger
}

// NewVerificationHandler builds the callback handler. botUsername feeds the
// "return to bot" link and may be empty.
func NewVerificationHandler(service VerificationService, botUsername string, now func() time.Time, logger *zap.Logger) *VerificationHandler {
	if now == nil {
		now = time.Now
	}
	h := &VerificationHandler{service: service, now: now, logger: logger}
	if botUsername != "" {
		h.botURL = "https://t.me/" + botUsername
	}
	return h
}

// Verify handles GET /verify?uid=&file_id=&code=, called by the short-link
// service once its redirect flow completes.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := application.ConfirmRequest{
		UID:    q.Get("uid"),
		FileID: q.Get("file_id"),
		Code:   q.Get("code"),
	}

	grant, err := h.service.Confirm(r.Context(), req, h.now().UTC())
	if err != nil {
		h.writeConfirmError(w, req, err)
		return
	}

	h.logger.Info("verification confirmed",
		zap.Int64("user_id", grant.UserID),
		zap.String("file_id", grant.FileID),
		zap.Time("expires_at", grant.ExpiresAt),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = successPage.Execute(w, struct {
		ExpiresAt string
		BotURL    string
	}{
		ExpiresAt: grant.ExpiresAt.Format("2006-01-02 15:04 MST"),
		BotURL:    h.botURL,
	})
}

// Health handles GET /health
func (h *VerificationHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// writeConfirmError maps a Confirm failure to a status. Details carry the
// shared error kind only; unclassified errors get none.
func (h *VerificationHandler) writeConfirmError(w http.ResponseWriter, req application.ConfirmRequest, err error) {
	kind := errs.Kind(err)
	switch {
	case errors.Is(err, domain.ErrMissingParameters):
		utils.WriteError(w, http.StatusBadRequest, "missing uid, file_id or code", kind)
	case errors.Is(err, domain.ErrInvalidUserID):
		utils.WriteError(w, http.StatusBadRequest, "invalid user id", kind)
	case errors.Is(err, filesDomain.ErrFileNotFound):
		utils.WriteError(w, http.StatusNotFound, "file not found", kind)
	case errors.Is(err, domain.ErrInvalidCode):
		h.logger.Warn("verification code mismatch", zap.String("file_id", req.FileID), zap.String("uid", req.UID))
		utils.WriteError(w, http.StatusForbidden, "invalid verification code", kind)
	case errors.Is(err, errs.ErrTransient):
		h.logger.Error("verification store unavailable", zap.Error(err))
		utils.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable, please retry", kind)
	default:
		h.logger.Error("verification failed", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "internal error", kind)
	}
}
