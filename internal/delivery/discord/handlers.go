package discord

import (
	"bytes"

	"github.com/bwmarrin/discordgo"

	"linkbridge/internal/models"
)

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	b.handleMessage(s, sessionDirectory{session: s}, m.Message)
}

func (b *Bot) handleMessage(api messenger, dir guildDirectory, m *discordgo.Message) {
	responder := &messageResponder{api: api, message: m}

	if !m.Author.Bot {
		if event := parseTextCommand(m.Content, m.Author.ID); event != nil {
			b.dispatch(event, responder)
			return
		}
	}

	if !b.isSourceChannel(m.ChannelID) {
		return
	}
	b.dispatch(toChatMessage(m, dir), responder)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.handleCommand(s, i.Interaction)
}

func (b *Bot) handleCommand(api messenger, i *discordgo.Interaction) {
	userID := interactionUserID(i)
	responder := &interactionResponder{api: api, interaction: i}

	switch i.ApplicationCommandData().Name {
	case commandLink:
		b.dispatch(&models.LinkRequest{Platform: models.PlatformSource, SourceUserID: userID}, responder)
	case commandUnlink:
		b.dispatch(&models.UnlinkRequest{Platform: models.PlatformSource, SourceUserID: userID}, responder)
	case commandLinkStatus:
		b.dispatch(&models.StatusRequest{Platform: models.PlatformSource, SourceUserID: userID}, responder)
	case commandExport:
		b.ensureAdmin(api, i, b.handleExport)
	}
}

func (b *Bot) handleExport(s messenger, i *discordgo.Interaction) {
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		b.logger.Warn("Failed to defer export response: %v", err)
		return
	}

	data, err := b.services.ExportService.GetLinksReport(b.ctx)
	if err != nil {
		b.logger.Error("Export error: %v", err)
		s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
			Content: &[]string{msgFailure}[0],
		})
		return
	}

	s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content: &[]string{msgExportReady}[0],
		Files: []*discordgo.File{
			{
				Name:        exportFileName,
				ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				Reader:      bytes.NewReader(data),
			},
		},
	})
}
