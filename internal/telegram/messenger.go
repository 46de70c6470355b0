package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rolewj/class-schedule-notifications-bot/internal/dialog"
)

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger delivers outgoing messages through the Bot API.
type Messenger struct {
	bot botAPI
}

// NewMessenger wraps bot. Pass a *tgbotapi.BotAPI in production.
func NewMessenger(bot botAPI) *Messenger {
	return &Messenger{bot: bot}
}

// Send delivers one dialog reply, attaching its keyboard if any.
func (m *Messenger) Send(chatID int64, r dialog.Reply) error {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if markup := replyMarkup(r.Keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := m.bot.Send(msg); err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}

// SendMessage sends a plain text message to the given chat.
// This makes Messenger satisfy scheduler.Sender.
func (m *Messenger) SendMessage(chatID int64, text string) error {
	return m.Send(chatID, dialog.Reply{Text: text})
}

// RegisterCommands publishes the command menu.
func (m *Messenger) RegisterCommands() error {
	if _, err := m.bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}
