package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"linkbridge/internal/application"
	"linkbridge/internal/models"
	"linkbridge/pkg/config"
)

type Bot struct {
	session  *discordgo.Session
	services *application.Service
	logger   application.Logger
	ctx      context.Context

	guildID        string
	adminIDs       map[string]struct{}
	sourceChannels map[string]struct{}
	commands       []*discordgo.ApplicationCommand
}

func NewBot(cfg *config.Config, services *application.Service, logger application.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	b := newBot(cfg, services, logger)
	b.session = s
	return b, nil
}

func newBot(cfg *config.Config, services *application.Service, logger application.Logger) *Bot {
	b := &Bot{
		services:       services,
		logger:         logger,
		ctx:            context.Background(),
		guildID:        cfg.DiscordGuildID,
		adminIDs:       idSet(cfg.AdminUserIDs),
		sourceChannels: idSet(cfg.SourceChannelIDs),
	}
	b.addCommands(
		b.newLinkCommand(),
		b.newUnlinkCommand(),
		b.newLinkStatusCommand(),
		b.newExportCommand(),
	)
	return b
}

func (b *Bot) Name() string {
	return "discord"
}

func (b *Bot) Init() error {
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onMessage)
	return nil
}

func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	b.logger.Info("Discord Bot Started as %s. Registering slash commands...", b.session.State.User.Username)

	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, b.commands); err != nil {
		b.logger.Error("Failed to register commands: %v", err)
	} else {
		b.logger.Info("Slash commands registered successfully")
	}

	<-ctx.Done()
	return nil
}

func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		b.logger.Warn("Failed to close discord session: %v", err)
	}
}

// isSourceChannel reports whether messages in channelID are relayed. An
// empty allow list relays every channel the bot can read.
func (b *Bot) isSourceChannel(channelID string) bool {
	if len(b.sourceChannels) == 0 {
		return true
	}
	_, ok := b.sourceChannels[channelID]
	return ok
}

// dispatch hands the event to the application layer. Failures have already
// been logged and reported to the user there.
func (b *Bot) dispatch(event models.Event, r application.Responder) {
	_ = b.services.Dispatcher.Handle(b.ctx, event, r)
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, id := range ids {
		cleanID := strings.TrimSpace(id)
		if cleanID != "" {
			set[cleanID] = struct{}{}
		}
	}
	return set
}
