package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"linkbridge/internal/application"
	"linkbridge/internal/models"
)

const (
	commandStart  = "start"
	commandLink   = "link"
	commandUnlink = "unlink"
	commandStatus = "status"
)

const (
	msgUsage = "👋 This bot links your Telegram account to Discord.\n\n" +
		"1. Type !link or /link in Discord to get a code in a private message.\n" +
		"2. Send it here: /link <code>\n\n" +
		"/status - show your link\n" +
		"/unlink - remove your link"
	msgMissingCode   = "Usage: /link <code>"
	msgInvalidCode   = "❌ The code is invalid or has expired."
	msgRelinkWarning = "⚠️ This Telegram account was linked to another Discord account. The old link has been replaced."
	msgLinked        = "✅ Accounts linked."
	msgUnlinked      = "🗑 Link removed."
	msgNoLink        = "ℹ️ No link found."
	msgNotLinked     = "ℹ️ Your account is not linked to Discord."
	msgFailure       = "❌ Something went wrong, please try again later."
)

func destUser(u *tgbotapi.User) models.DestUser {
	return models.DestUser{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// toEvent adapts a command message. It returns nil for anything that is
// not one of the bot's link commands.
func toEvent(m *tgbotapi.Message) models.Event {
	if m == nil || m.From == nil || !m.IsCommand() {
		return nil
	}

	switch strings.ToLower(m.Command()) {
	case commandLink:
		code := ""
		if fields := strings.Fields(m.CommandArguments()); len(fields) > 0 {
			code = fields[0]
		}
		return &models.LinkRequest{
			Platform: models.PlatformDest,
			DestUser: destUser(m.From),
			Code:     code,
		}
	case commandUnlink:
		return &models.UnlinkRequest{Platform: models.PlatformDest, DestUserID: m.From.ID}
	case commandStatus:
		return &models.StatusRequest{Platform: models.PlatformDest, DestUserID: m.From.ID}
	default:
		return nil
	}
}

func isStartCommand(m *tgbotapi.Message) bool {
	return m != nil && m.IsCommand() && strings.EqualFold(m.Command(), commandStart)
}

func renderNotice(n application.Notice) string {
	switch n.Kind {
	case application.NoticeMissingCode:
		return msgMissingCode
	case application.NoticeInvalidCode:
		return msgInvalidCode
	case application.NoticeRelinkWarning:
		return msgRelinkWarning
	case application.NoticeLinked:
		return msgLinked
	case application.NoticeUnlinked:
		return msgUnlinked
	case application.NoticeNoLink:
		return msgNoLink
	case application.NoticeLinkStatus:
		if !n.Link.Linked() {
			return msgNotLinked
		}
		return fmt.Sprintf("🔗 Linked to Discord user ID %s, last updated %s UTC.",
			*n.Link.SourceID, n.Link.UpdatedAt.UTC().Format("2006-01-02 15:04"))
	default:
		return msgFailure
	}
}
