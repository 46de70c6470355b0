package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/dialog"
)

// Handler runs one conversation turn. *dialog.Machine implements it.
type Handler interface {
	Handle(ctx context.Context, userID int64, text string) []dialog.Reply
}

// Router wires Telegram updates to the dialog handler.
type Router struct {
	msgr    *Messenger
	log     *zap.Logger
	handler Handler
}

// NewRouter creates a new Telegram router.
func NewRouter(msgr *Messenger, log *zap.Logger, handler Handler) *Router {
	return &Router{
		msgr:    msgr,
		log:     log,
		handler: handler,
	}
}

// HandleUpdate routes a single update. Only text messages in private chats
// take part in the conversation; the chat id doubles as the user id.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Text == "" {
		return
	}
	// Sessions and timetables are keyed by chat, which is the user only in
	// private chats.
	if msg.Chat == nil || !msg.Chat.IsPrivate() {
		if msg.Chat != nil {
			r.log.Debug("ignoring non-private chat", zap.Int64("chatID", msg.Chat.ID), zap.String("type", msg.Chat.Type))
		}
		return
	}
	chatID := msg.Chat.ID

	for _, reply := range r.handler.Handle(ctx, chatID, msg.Text) {
		if err := r.msgr.Send(chatID, reply); err != nil {
			// Later replies of the same turn are still attempted.
			r.log.Error("send reply failed", zap.Error(err), zap.Int64("chatID", chatID))
		}
	}
}
