package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"linkbridge/internal/application"
	"linkbridge/internal/models"
)

func sendDirect(api messenger, userID string, lc models.LinkCode) error {
	ch, err := api.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if _, err := api.ChannelMessageSend(ch.ID, codeMessage(lc)); err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}

// messageResponder answers a gateway message with a reply in its channel.
type messageResponder struct {
	api     messenger
	message *discordgo.Message
}

func (r *messageResponder) DeliverCode(_ context.Context, lc models.LinkCode) error {
	return sendDirect(r.api, r.message.Author.ID, lc)
}

func (r *messageResponder) Notify(_ context.Context, n application.Notice) error {
	_, err := r.api.ChannelMessageSendReply(r.message.ChannelID, renderNotice(n), r.message.SoftReference())
	return err
}

// interactionResponder answers a slash command. The first notice is the
// interaction response, later ones are ephemeral followups.
type interactionResponder struct {
	api         messenger
	interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

func (r *interactionResponder) DeliverCode(_ context.Context, lc models.LinkCode) error {
	return sendDirect(r.api, interactionUserID(r.interaction), lc)
}

func (r *interactionResponder) Notify(_ context.Context, n application.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var embeds []*discordgo.MessageEmbed
	content := renderNotice(n)
	if n.Kind == application.NoticeLinkStatus {
		embeds = []*discordgo.MessageEmbed{statusEmbed(n.Link)}
		content = ""
	}

	if !r.responded {
		err := r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Embeds:  embeds,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err == nil {
			r.responded = true
		}
		return err
	}

	_, err := r.api.FollowupMessageCreate(r.interaction, false, &discordgo.WebhookParams{
		Content: content,
		Embeds:  embeds,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}
