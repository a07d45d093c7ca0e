package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chat-relay/bot/internal/model"
)

// eventFromUpdate converts an update into a model event. It reports false for
// updates the bot does not act on: non-message updates, messages without a
// sender and commands addressed to another bot.
func eventFromUpdate(u tgbotapi.Update, botName string) (model.Event, bool) {
	msg := u.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return model.Event{}, false
	}

	ev := model.Event{
		UpdateID:  u.UpdateID,
		UserID:    model.UserID(msg.From.ID),
		ChatID:    msg.Chat.ID,
		ChatType:  chatType(msg.Chat),
		MessageID: msg.MessageID,
		Text:      msg.Text,
		Caption:   msg.Caption,
	}

	if msg.IsCommand() {
		if _, target, ok := strings.Cut(msg.CommandWithAt(), "@"); ok && !strings.EqualFold(target, botName) {
			return model.Event{}, false
		}
		ev.Command = strings.ToLower(msg.Command())
	}

	for _, p := range msg.Photo {
		ev.Photos = append(ev.Photos, model.PhotoRef{
			FileID:   p.FileID,
			Width:    p.Width,
			Height:   p.Height,
			FileSize: p.FileSize,
		})
	}

	return ev, true
}

func chatType(chat *tgbotapi.Chat) model.ChatType {
	if chat.IsPrivate() {
		return model.ChatPrivate
	}
	return model.ChatGroup
}
