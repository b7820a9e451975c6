package discord

const (
	// Text commands
	textCommandLink   = "!link"
	textCommandUnlink = "!unlink"

	// Slash commands
	commandLink       = "link"
	commandUnlink     = "unlink"
	commandLinkStatus = "link_status"
	commandExport     = "export_links"

	exportFileName = "identity_links.xlsx"

	// Embed colors
	colorTelegramBlue = 0x0088CC // Linked
	colorGray         = 0x95A5A6 // Not linked
)

const (
	msgCodeSent       = "📩 I sent you a link code in a private message."
	msgDeliveryFailed = "❌ I can't send you a DM. Enable direct messages from server members and try again."
	msgUnlinked       = "🗑 Link removed."
	msgNoLink         = "ℹ️ You have no linked Telegram account."
	msgFailure        = "❌ Something went wrong, please try again later."
	msgRelayFailed    = "⚠️ This message could not be forwarded to Telegram."
	msgNotLinked      = "ℹ️ Your account is not linked to Telegram. Use /link to get a code."
	msgNoPermission   = "You don't have permission to use this command."
	msgExportReady    = "The identity table export is ready."

	msgCodeTemplate = "🔐 Your link code: **%s**\n\nSend it to the Telegram bot:\n/link %s\n\n⏳ The code is valid for %d minutes."
)
