package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"linkbridge/internal/repository"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Repo     repository.Config `envPrefix:"REPO_"`
	LogLevel string            `env:"LOGGER_LEVEL" envDefault:"debug"`
	Port     string            `env:"PORT" envDefault:"5000"`

	DiscordToken     string   `env:"DISCORD_TOKEN" envDefault:""`
	DiscordGuildID   string   `env:"DISCORD_GUILD_ID" envDefault:""`
	SourceChannelIDs []string `env:"SOURCE_CHANNEL_IDS" envSeparator:"," envDefault:""`
	AdminUserIDs     []string `env:"ADMIN_USER_IDS" envSeparator:"," envDefault:""`

	TelegramToken string `env:"TELEGRAM_TOKEN" envDefault:""`
	// TelegramChatID is "<chat>" or "<chat>/<thread>".
	TelegramChatID string `env:"TELEGRAM_CHAT_ID" envDefault:""`

	LinkCodeTTL time.Duration `env:"LINK_CODE_TTL" envDefault:"5m"`
}

func ReadEnvConfig(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}
	if cfg.LinkCodeTTL <= 0 {
		return fmt.Errorf("LINK_CODE_TTL must be positive, got %s", cfg.LinkCodeTTL)
	}
	return nil
}

// TelegramTarget splits TelegramChatID into the chat id and an optional
// forum thread id (0 when absent).
func (c *Config) TelegramTarget() (chatID int64, threadID int, err error) {
	return ParseChatTarget(c.TelegramChatID)
}

func ParseChatTarget(raw string) (int64, int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, fmt.Errorf("telegram chat id is empty")
	}

	chatStr, threadStr, hasThread := strings.Cut(raw, "/")
	chatID, err := strconv.ParseInt(strings.TrimSpace(chatStr), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid telegram chat id %q: %w", chatStr, err)
	}
	if !hasThread {
		return chatID, 0, nil
	}

	threadID, err := strconv.Atoi(strings.TrimSpace(threadStr))
	if err != nil || threadID <= 0 {
		return 0, 0, fmt.Errorf("invalid telegram thread id %q", threadStr)
	}
	return chatID, threadID, nil
}
