package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"linkbridge/internal/application"
)

const pollTimeoutSeconds = 60

type updatesSource interface {
	requester
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api      updatesSource
	services *application.Service
	logger   application.Logger
	username string

	wg sync.WaitGroup
}

func NewBot(api *tgbotapi.BotAPI, services *application.Service, logger application.Logger) *Bot {
	return &Bot{
		api:      api,
		services: services,
		logger:   logger,
		username: api.Self.UserName,
	}
}

func (b *Bot) Name() string {
	return "telegram"
}

func (b *Bot) Init() error {
	b.logger.Info("Telegram bot authorized on account %s", b.username)
	return nil
}

// Run polls for updates and handles each one in its own goroutine until
// ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
