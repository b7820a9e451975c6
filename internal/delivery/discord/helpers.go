package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"linkbridge/internal/application"
	"linkbridge/internal/models"
)

// messenger is the part of *discordgo.Session the bot talks through.
type messenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// guildDirectory resolves role and member details for a guild.
type guildDirectory interface {
	Role(guildID, roleID string) (*discordgo.Role, error)
	Member(guildID, userID string) (*discordgo.Member, error)
}

// sessionDirectory reads the state cache and falls back to the REST API.
type sessionDirectory struct {
	session *discordgo.Session
}

func (d sessionDirectory) Role(guildID, roleID string) (*discordgo.Role, error) {
	if d.session.StateEnabled {
		if role, err := d.session.State.Role(guildID, roleID); err == nil {
			return role, nil
		}
	}
	roles, err := d.session.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.ID == roleID {
			return role, nil
		}
	}
	return nil, discordgo.ErrStateNotFound
}

func (d sessionDirectory) Member(guildID, userID string) (*discordgo.Member, error) {
	if d.session.StateEnabled {
		if member, err := d.session.State.Member(guildID, userID); err == nil {
			return member, nil
		}
	}
	return d.session.GuildMember(guildID, userID)
}

func isRelayableType(t discordgo.MessageType) bool {
	return t == discordgo.MessageTypeDefault || t == discordgo.MessageTypeReply
}

// toChatMessage adapts a gateway message. Directory failures degrade to
// missing nicknames and role names.
func toChatMessage(m *discordgo.Message, dir guildDirectory) *models.ChatMessage {
	msg := &models.ChatMessage{
		ChannelID:        m.ChannelID,
		Text:             m.Content,
		MentionsEveryone: m.MentionEveryone,
		AuthorIsSystem:   !isRelayableType(m.Type),
	}

	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorUsername = m.Author.Username
		msg.AuthorGlobalName = m.Author.GlobalName
		msg.AuthorIsBot = m.Author.Bot || m.WebhookID != ""
		msg.AuthorIsSystem = msg.AuthorIsSystem || m.Author.System
	}
	if m.Member != nil {
		msg.AuthorNickname = m.Member.Nick
	}

	for _, u := range m.Mentions {
		if u == nil {
			continue
		}
		mentioned := models.MentionedUser{
			ID:         u.ID,
			Username:   u.Username,
			GlobalName: u.GlobalName,
		}
		if m.GuildID != "" && dir != nil {
			if member, err := dir.Member(m.GuildID, u.ID); err == nil && member != nil {
				mentioned.Nickname = member.Nick
			}
		}
		msg.MentionedUsers = append(msg.MentionedUsers, mentioned)
	}

	for _, roleID := range m.MentionRoles {
		mentioned := models.MentionedRole{ID: roleID}
		if m.GuildID != "" && dir != nil {
			if role, err := dir.Role(m.GuildID, roleID); err == nil && role != nil {
				mentioned.Name = role.Name
			}
		}
		msg.MentionedRoles = append(msg.MentionedRoles, mentioned)
	}

	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, models.Attachment{
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}

	return msg
}

// parseTextCommand recognises the bare !link and !unlink commands.
func parseTextCommand(content string, userID string) models.Event {
	switch strings.TrimSpace(content) {
	case textCommandLink:
		return &models.LinkRequest{Platform: models.PlatformSource, SourceUserID: userID}
	case textCommandUnlink:
		return &models.UnlinkRequest{Platform: models.PlatformSource, SourceUserID: userID}
	default:
		return nil
	}
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func codeMessage(lc models.LinkCode) string {
	minutes := int(lc.ExpiresAt.Sub(lc.IssuedAt).Minutes())
	return fmt.Sprintf(msgCodeTemplate, lc.Code, lc.Code, minutes)
}

func renderNotice(n application.Notice) string {
	switch n.Kind {
	case application.NoticeCodeSent:
		return msgCodeSent
	case application.NoticeDeliveryFailed:
		return msgDeliveryFailed
	case application.NoticeUnlinked:
		return msgUnlinked
	case application.NoticeNoLink:
		return msgNoLink
	case application.NoticeRelayFailed:
		return msgRelayFailed
	case application.NoticeLinkStatus:
		if !n.Link.Linked() {
			return msgNotLinked
		}
		return fmt.Sprintf("🔗 Linked to Telegram account %s.", valueOrDefault(n.Link.DisplayName, fmt.Sprintf("id %d", n.Link.DestID)))
	default:
		return msgFailure
	}
}

func statusEmbed(link *models.IdentityLink) *discordgo.MessageEmbed {
	if !link.Linked() {
		return &discordgo.MessageEmbed{
			Title:       "Telegram link",
			Description: msgNotLinked,
			Color:       colorGray,
		}
	}
	return &discordgo.MessageEmbed{
		Title: "Telegram link",
		Color: colorTelegramBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Account", Value: valueOrDefault(link.DisplayName, "unknown"), Inline: true},
			{Name: "Telegram ID", Value: fmt.Sprintf("%d", link.DestID), Inline: true},
			{Name: "Updated", Value: fmt.Sprintf("<t:%d:R>", link.UpdatedAt.Unix()), Inline: false},
		},
	}
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
