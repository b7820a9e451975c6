package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// requester is the raw Bot API call surface of *tgbotapi.BotAPI. Raw calls
// are used so that message_thread_id can be set.
type requester interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Sender posts relayed content into one chat, and optionally one forum
// thread of it.
type Sender struct {
	api      requester
	chatID   int64
	threadID int
}

func NewSender(api requester, chatID int64, threadID int) *Sender {
	return &Sender{
		api:      api,
		chatID:   chatID,
		threadID: threadID,
	}
}

func (s *Sender) SendText(ctx context.Context, text string) error {
	params := s.params()
	params["text"] = text
	return s.call(ctx, "sendMessage", params)
}

func (s *Sender) SendPhoto(ctx context.Context, url, caption string) error {
	return s.sendMedia(ctx, "sendPhoto", "photo", url, caption)
}

func (s *Sender) SendAnimation(ctx context.Context, url, caption string) error {
	return s.sendMedia(ctx, "sendAnimation", "animation", url, caption)
}

func (s *Sender) SendVideo(ctx context.Context, url, caption string) error {
	return s.sendMedia(ctx, "sendVideo", "video", url, caption)
}

func (s *Sender) SendDocument(ctx context.Context, url, caption string) error {
	return s.sendMedia(ctx, "sendDocument", "document", url, caption)
}

func (s *Sender) sendMedia(ctx context.Context, endpoint, field, url, caption string) error {
	params := s.params()
	params[field] = url
	params.AddNonEmpty("caption", caption)
	return s.call(ctx, endpoint, params)
}

func (s *Sender) params() tgbotapi.Params {
	params := make(tgbotapi.Params)
	params["chat_id"] = strconv.FormatInt(s.chatID, 10)
	params.AddNonZero("message_thread_id", s.threadID)
	return params
}

func (s *Sender) call(ctx context.Context, endpoint string, params tgbotapi.Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.api.MakeRequest(endpoint, params)
	return err
}

// reply answers a user in the chat the command came from.
func reply(ctx context.Context, api requester, chatID int64, replyTo int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := make(tgbotapi.Params)
	params["chat_id"] = strconv.FormatInt(chatID, 10)
	params["text"] = text
	params.AddNonZero("reply_to_message_id", replyTo)
	params.AddBool("allow_sending_without_reply", true)
	_, err := api.MakeRequest("sendMessage", params)
	return err
}
