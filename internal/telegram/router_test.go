package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/dialog"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	failOn   int // 1-based index of the Send call to fail, 0 = never
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	if b.failOn == len(b.sent) {
		return tgbotapi.Message{}, errors.New("Too Many Requests")
	}
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type handlerFunc func(ctx context.Context, userID int64, text string) []dialog.Reply

func (f handlerFunc) Handle(ctx context.Context, userID int64, text string) []dialog.Reply {
	return f(ctx, userID, text)
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID, Type: "private"}}}
}

func TestHandleUpdateSendsEveryReply(t *testing.T) {
	bot := &fakeBot{}
	var gotUser int64
	var gotText string
	h := handlerFunc(func(_ context.Context, userID int64, text string) []dialog.Reply {
		gotUser, gotText = userID, text
		return []dialog.Reply{
			{Text: "first"},
			{Text: "second", Keyboard: &dialog.Keyboard{Rows: [][]string{{"Back"}, {"Monday"}}}},
		}
	})
	r := NewRouter(NewMessenger(bot), zap.NewNop(), h)

	r.HandleUpdate(context.Background(), textUpdate(77, "/add"))

	assert.Equal(t, int64(77), gotUser)
	assert.Equal(t, "/add", gotText)
	require.Len(t, bot.sent, 2)

	first := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(77), first.ChatID)
	assert.Equal(t, "first", first.Text)
	assert.Nil(t, first.ReplyMarkup)

	second := bot.sent[1].(tgbotapi.MessageConfig)
	markup, ok := second.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, markup.ResizeKeyboard)
	require.Len(t, markup.Keyboard, 2)
	assert.Equal(t, "Back", markup.Keyboard[0][0].Text)
	assert.Equal(t, "Monday", markup.Keyboard[1][0].Text)
}

func TestHandleUpdateIgnoresNonText(t *testing.T) {
	bot := &fakeBot{}
	called := false
	h := handlerFunc(func(context.Context, int64, string) []dialog.Reply {
		called = true
		return nil
	})
	r := NewRouter(NewMessenger(bot), zap.NewNop(), h)

	r.HandleUpdate(context.Background(), tgbotapi.Update{})
	r.HandleUpdate(context.Background(), textUpdate(1, ""))

	assert.False(t, called)
	assert.Empty(t, bot.sent)
}

func TestHandleUpdateIgnoresGroupChats(t *testing.T) {
	bot := &fakeBot{}
	called := false
	h := handlerFunc(func(context.Context, int64, string) []dialog.Reply {
		called = true
		return []dialog.Reply{{Text: "menu"}}
	})
	r := NewRouter(NewMessenger(bot), zap.NewNop(), h)

	for _, kind := range []string{"group", "supergroup", "channel"} {
		upd := textUpdate(-100123, "/start")
		upd.Message.Chat.Type = kind
		r.HandleUpdate(context.Background(), upd)
	}
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "/start"}})

	assert.False(t, called)
	assert.Empty(t, bot.sent)
}

func TestHandleUpdateContinuesAfterSendError(t *testing.T) {
	bot := &fakeBot{failOn: 1}
	h := handlerFunc(func(context.Context, int64, string) []dialog.Reply {
		return []dialog.Reply{{Text: "a"}, {Text: "b"}}
	})
	r := NewRouter(NewMessenger(bot), zap.NewNop(), h)

	r.HandleUpdate(context.Background(), textUpdate(1, "hi"))
	assert.Len(t, bot.sent, 2)
}

func TestReplyMarkup(t *testing.T) {
	assert.Nil(t, replyMarkup(nil))

	remove, ok := replyMarkup(&dialog.Keyboard{}).(tgbotapi.ReplyKeyboardRemove)
	require.True(t, ok)
	assert.True(t, remove.RemoveKeyboard)
}

func TestSendMessageWrapsError(t *testing.T) {
	bot := &fakeBot{failOn: 1}
	err := NewMessenger(bot).SendMessage(5, "reminder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send to 5")
}

func TestRegisterCommands(t *testing.T) {
	bot := &fakeBot{}
	require.NoError(t, NewMessenger(bot).RegisterCommands())
	require.Len(t, bot.requests, 1)
	cfg, ok := bot.requests[0].(tgbotapi.SetMyCommandsConfig)
	require.True(t, ok)
	assert.Len(t, cfg.Commands, len(botCommands()))
}
