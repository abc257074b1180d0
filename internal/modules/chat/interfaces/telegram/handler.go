package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	accessDomain "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/access/domain"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/chat/domain"
	filesApp "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/files/application"
	"go.uber.org/zap"
)

const retryPrefix = "retry|"

var updatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chat_updates_total",
		Help: "Telegram updates handled, by kind",
	},
	[]string{"kind"},
)

// ChatService is the application surface the handler renders
type ChatService interface {
	Welcome() domain.Reply
	Help() domain.Reply
	Upload(ctx context.Context, upload filesApp.Upload) domain.Reply
	BindShortLink(ctx context.Context, adminID int64, text string) domain.Reply
	OpenDeepLink(ctx context.Context, userID int64, token string) domain.Reply
	Retry(ctx context.Context, userID int64, fileID string) domain.Reply
}

// BotAPI is the part of *tgbotapi.BotAPI the handler needs
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	service ChatService
	bot     BotAPI
	logger  *zap.Logger
}

func NewHandler(service ChatService, bot BotAPI, logger *zap.Logger) *Handler {
	return &Handler{service: service, bot: bot, logger: logger}
}

// HandleUpdate dispatches one update. It never returns an error: failures
// are shown to the user by the service or logged here.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	default:
		updatesTotal.WithLabelValues("ignored").Inc()
	}
}

func (h *Handler) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.From == nil || m.Chat == nil || !m.Chat.IsPrivate() {
		updatesTotal.WithLabelValues("ignored").Inc()
		return
	}

	var (
		kind  string
		reply domain.Reply
	)

	switch {
	case m.IsCommand():
		kind, reply = h.handleCommand(ctx, m)
	case m.Document != nil:
		kind = "upload"
		reply = h.service.Upload(ctx, filesApp.Upload{
			AdminID:  m.From.ID,
			FileID:   m.Document.FileUniqueID,
			FileName: m.Document.FileName,
			Caption:  m.Caption,
		})
	case m.Text != "":
		kind = "short_link"
		reply = h.service.BindShortLink(ctx, m.From.ID, m.Text)
	default:
		updatesTotal.WithLabelValues("ignored").Inc()
		return
	}

	updatesTotal.WithLabelValues(kind).Inc()
	h.send(m.Chat.ID, reply)
}

func (h *Handler) handleCommand(ctx context.Context, m *tgbotapi.Message) (string, domain.Reply) {
	switch m.Command() {
	case "start":
		token := strings.TrimSpace(m.CommandArguments())
		if token == "" {
			return "start", h.service.Welcome()
		}
		return "deep_link", h.service.OpenDeepLink(ctx, m.From.ID, token)
	default:
		return "help", h.service.Help()
	}
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	defer h.answer(q.ID)

	fileID, ok := strings.CutPrefix(q.Data, retryPrefix)
	if !ok || fileID == "" || q.From == nil || q.Message == nil || q.Message.Chat == nil {
		updatesTotal.WithLabelValues("ignored").Inc()
		return
	}
	updatesTotal.WithLabelValues("retry").Inc()

	reply := h.service.Retry(ctx, q.From.ID, fileID)
	h.edit(q.Message.Chat.ID, q.Message.MessageID, reply)
}

func (h *Handler) send(chatID int64, reply domain.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Actions) > 0 {
		msg.ReplyMarkup = keyboard(reply.Actions)
	}
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handler) edit(chatID int64, messageID int, reply domain.Reply) {
	var edit tgbotapi.EditMessageTextConfig
	if len(reply.Actions) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, reply.Text, keyboard(reply.Actions))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
	}
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Warn("failed to edit message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
	}
}

func (h *Handler) answer(callbackID string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		h.logger.Warn("failed to answer callback", zap.String("callback_id", callbackID), zap.Error(err))
	}
}

func keyboard(actions []accessDomain.Action) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		if a.External() {
			row = append(row, tgbotapi.NewInlineKeyboardButtonURL(a.Label, a.URL))
		} else {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(a.Label, retryPrefix+a.FileID))
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
