package main

import (
	"context"
	"embed"

	"linkbridge/internal/application"
	"linkbridge/internal/delivery/discord"
	"linkbridge/internal/delivery/telegram"
	"linkbridge/internal/repository"
	"linkbridge/pkg/clock"
	"linkbridge/pkg/config"
	"linkbridge/pkg/health"
	"linkbridge/pkg/logger"
	service "linkbridge/pkg/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	db, dialect, err := repository.OpenDB(&cfg.Repo)
	if err != nil {
		log.Error("failed to init db: %s", err.Error())
		return
	}

	repos := repository.NewRepository(db, dialect)
	defer repos.Close()

	log.Info("Running %s migrations...", dialect)
	if err := repository.Migrate(db, dialect, migrationFS, "migrations"); err != nil {
		log.Error("failed to run migrations: %s", err.Error())
		return
	}
	log.Info("Migrations applied successfully")

	chatID, threadID, err := cfg.TelegramTarget()
	if err != nil {
		log.Error("failed to parse telegram target: %s", err.Error())
		return
	}

	tgAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Error("failed to init telegram: %s", err.Error())
		return
	}

	codes := repository.NewLinkCodeStore(clock.Real(), cfg.LinkCodeTTL)
	sender := telegram.NewSender(tgAPI, chatID, threadID)
	services := application.NewService(repos, codes, sender, log)

	discordBot, err := discord.NewBot(&cfg, services, log)
	if err != nil {
		log.Error("failed to init discord: %s", err.Error())
		return
	}

	manager := service.NewManager(log)
	manager.AddService(
		health.NewServer(cfg.Port),
		discordBot,
		telegram.NewBot(tgAPI, services, log),
	)

	if err := manager.Run(context.Background()); err != nil {
		log.Error("service manager stopped: %s", err.Error())
		return
	}
	log.Info("Bridge stopped")
}
