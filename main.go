package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	initLoggers()

	InfoLogger.Println("Starting Namshi product bot")

	config, err := loadConfig()
	if err != nil {
		ErrorLogger.Fatalf("Error loading configuration: %v", err)
	}

	db, err := initDB(config.DatabasePath)
	if err != nil {
		ErrorLogger.Fatalf("Error initializing database: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The Telegram client needs the bot's handler, so it is attached after NewBot.
	b, err := NewBot(db, config, RealClock{}, nil)
	if err != nil {
		ErrorLogger.Fatalf("Error creating bot: %v", err)
	}

	tgClient, err := initTelegramBot(ctx, config.TelegramToken, b.handleUpdate)
	if err != nil {
		ErrorLogger.Fatalf("Error initializing Telegram client: %v", err)
	}
	b.tgBot = tgClient

	InfoLogger.Println("Bot is polling for updates")
	b.Start(ctx)

	InfoLogger.Println("Bot has stopped. Exiting application.")
}
