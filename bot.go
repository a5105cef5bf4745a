package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type Bot struct {
	tgBot          TelegramClient
	db             *gorm.DB
	config         BotConfig
	fetcher        *Fetcher
	extractor      *Extractor
	composer       *Composer
	userLimiters   map[int64]*userLimiter
	userLimitersMu sync.Mutex
	clock          Clock
}

func NewBot(db *gorm.DB, config BotConfig, clock Clock, tgClient TelegramClient) (*Bot, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	fetcher := &Fetcher{
		UserAgent:     config.UserAgent,
		Timeout:       config.FetchTimeout,
		RespectRobots: config.RespectRobots,
	}

	b := &Bot{
		tgBot:        tgClient,
		db:           db,
		config:       config,
		fetcher:      fetcher,
		extractor:    NewExtractor(fetcher, config.ImageWidth),
		composer:     NewComposer(fetcher, config.MaxImages),
		userLimiters: make(map[int64]*userLimiter),
		clock:        clock,
	}
	return b, nil
}

func (b *Bot) Start(ctx context.Context) {
	b.tgBot.Start(ctx)
}

func initTelegramBot(ctx context.Context, token string, handleUpdate func(ctx context.Context, tgBot *bot.Bot, update *models.Update)) (TelegramClient, error) {
	opts := []bot.Option{
		bot.WithDefaultHandler(handleUpdate),
	}

	tgBot, err := bot.New(token, opts...)
	if err != nil {
		return nil, err
	}

	// Messages sent while the bot was down are not answered.
	if _, err := tgBot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		ErrorLogger.Printf("Error dropping pending updates: %v", err)
	}

	return tgBot, nil
}

func (b *Bot) sendResponse(ctx context.Context, chatID int64, text string) error {
	_, err := b.tgBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		ErrorLogger.Printf("Error sending message to chat %d: %v", chatID, err)
		return err
	}
	return nil
}

func (b *Bot) isOwner(userID int64) bool {
	return b.config.OwnerTelegramID != 0 && b.config.OwnerTelegramID == userID
}

// sendStats sends lookup statistics. When an owner is configured only the
// owner may see them.
func (b *Bot) sendStats(ctx context.Context, chatID, userID int64) {
	if b.config.OwnerTelegramID != 0 && !b.isOwner(userID) {
		b.sendResponse(ctx, chatID, "Sorry, only the bot owner can view statistics.")
		return
	}

	totalUsers, totalLookups, outcomes, err := b.getStats()
	if err != nil {
		ErrorLogger.Printf("Error fetching stats: %v", err)
		b.sendResponse(ctx, chatID, "Sorry, I couldn't retrieve the stats at this time.")
		return
	}

	b.sendResponse(ctx, chatID, formatStats(totalUsers, totalLookups, outcomes))
}

func formatStats(totalUsers, totalLookups int64, outcomes []OutcomeCount) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Bot Statistics:\n\n- Total Users: %d\n- Total Lookups: %d", totalUsers, totalLookups)

	caser := cases.Title(language.English)
	for _, o := range outcomes {
		label := caser.String(strings.ReplaceAll(o.Outcome, "_", " "))
		fmt.Fprintf(&sb, "\n  - %s: %d", label, o.Count)
	}
	return sb.String()
}
