package discord

import "github.com/bwmarrin/discordgo"

func (b *Bot) addCommands(commands ...*discordgo.ApplicationCommand) {
	b.commands = append(b.commands, commands...)
}

func (b *Bot) newLinkCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandLink,
		Description: "Get a code to link your Telegram account",
	}
}

func (b *Bot) newUnlinkCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandUnlink,
		Description: "Unlink your Telegram account",
	}
}

func (b *Bot) newLinkStatusCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandLinkStatus,
		Description: "Show which Telegram account you are linked to",
	}
}

func (b *Bot) newExportCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandExport,
		Description: "Export the identity table to Excel (admins only)",
	}
}
