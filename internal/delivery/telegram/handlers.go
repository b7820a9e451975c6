package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"linkbridge/internal/application"
	"linkbridge/internal/models"
)

var errNoPrivateDelivery = errors.New("codes are not delivered on telegram")

// chatResponder replies to the message that carried the command.
type chatResponder struct {
	api       requester
	chatID    int64
	messageID int
}

func (r *chatResponder) DeliverCode(context.Context, models.LinkCode) error {
	return errNoPrivateDelivery
}

func (r *chatResponder) Notify(ctx context.Context, n application.Notice) error {
	return reply(ctx, r.api, r.chatID, r.messageID, renderNotice(n))
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	if isStartCommand(msg) {
		if err := reply(ctx, b.api, msg.Chat.ID, msg.MessageID, msgUsage); err != nil {
			b.logger.Warn("Failed to send usage to %d: %v", msg.Chat.ID, err)
		}
		return
	}

	event := toEvent(msg)
	if event == nil {
		return
	}

	r := &chatResponder{api: b.api, chatID: msg.Chat.ID, messageID: msg.MessageID}
	_ = b.services.Dispatcher.Handle(ctx, event, r)
}
