package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rolewj/class-schedule-notifications-bot/internal/dialog"
)

// replyMarkup renders a keyboard hint as a Telegram reply keyboard.
// nil means "leave the current keyboard", so no markup is attached.
func replyMarkup(kb *dialog.Keyboard) interface{} {
	switch {
	case kb == nil:
		return nil
	case len(kb.Rows) == 0:
		return tgbotapi.NewRemoveKeyboard(false)
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		row := make([]tgbotapi.KeyboardButton, 0, len(r))
		for _, caption := range r {
			row = append(row, tgbotapi.NewKeyboardButton(caption))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

// botCommands is the command menu shown by Telegram clients. Admin commands
// are not listed.
func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Show the menu"},
		{Command: "add", Description: "Add a lesson"},
		{Command: "edit", Description: "Edit a lesson"},
		{Command: "delete", Description: "Delete a lesson or a whole day"},
		{Command: "view", Description: "Show the timetable for a day"},
		{Command: "week", Description: "Show the whole week"},
		{Command: "notification", Description: "Daily reminder about tomorrow's lessons"},
	}
}
