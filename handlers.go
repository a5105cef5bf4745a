package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

const (
	helpMessage       = "Send me a Namshi product URL (e.g., https://www.namshi.com/uae-en/buy-product-name/product-id/p/) and I'll extract the product images, name, price, and available sizes for you."
	processingMessage = "Processing your Namshi product URL... Please wait."
	rateLimitMessage  = "Rate limit exceeded. Please try again later."
)

func (b *Bot) handleUpdate(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	message := update.Message
	if message == nil {
		return
	}

	chatID := message.Chat.ID
	var userID int64
	var username, firstName string
	if message.From != nil {
		userID = message.From.ID
		username = message.From.Username
		firstName = message.From.FirstName
		if _, err := b.upsertUser(userID, username, firstName); err != nil {
			ErrorLogger.Printf("Error storing user %d: %v", userID, err)
		}
	}

	switch botCommand(message) {
	case "":
	case "/start":
		b.sendResponse(ctx, chatID, startMessage(firstName))
		return
	case "/help":
		b.sendResponse(ctx, chatID, helpMessage)
		return
	case "/stats":
		b.sendStats(ctx, chatID, userID)
		return
	default:
		b.sendResponse(ctx, chatID, helpMessage)
		return
	}

	if message.Text == "" {
		InfoLogger.Printf("Received a non-text message from user %d in chat %d", userID, chatID)
		return
	}

	b.handleProductMessage(ctx, chatID, userID, message.Text)
}

// botCommand returns the command a message starts with, without any @botname
// suffix, or "" when it is not a command.
func botCommand(message *models.Message) string {
	for _, entity := range message.Entities {
		if entity.Type != "bot_command" || entity.Offset != 0 {
			continue
		}
		if entity.Length > len(message.Text) {
			return ""
		}
		command := strings.TrimSpace(message.Text[:entity.Length])
		command, _, _ = strings.Cut(command, "@")
		return strings.ToLower(command)
	}
	return ""
}

func startMessage(firstName string) string {
	if firstName == "" {
		firstName = "there"
	}
	return fmt.Sprintf("Hi %s! Send me a Namshi product URL and I'll extract the product details for you.", firstName)
}

// handleProductMessage runs one lookup and converts any failure into a single reply.
func (b *Bot) handleProductMessage(ctx context.Context, chatID, userID int64, text string) {
	lookup := Lookup{
		RequestID: uuid.NewString(),
		ChatID:    chatID,
		UserID:    userID,
	}

	productURL, err := findProductURL(text)
	if err != nil {
		lookup.Outcome = errorOutcome(err)
		b.sendResponse(ctx, chatID, userMessage(err))
		b.recordLookup(lookup)
		return
	}
	lookup.URL = productURL

	if !b.checkRateLimits(userID) {
		InfoLogger.Printf("[%s] User %d is rate limited", lookup.RequestID, userID)
		lookup.Outcome = OutcomeRateLimited
		b.sendResponse(ctx, chatID, rateLimitMessage)
		b.recordLookup(lookup)
		return
	}

	InfoLogger.Printf("[%s] Looking up %s for user %d in chat %d", lookup.RequestID, productURL, userID, chatID)

	notice, err := b.tgBot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: processingMessage})
	if err != nil {
		ErrorLogger.Printf("[%s] Error sending processing notice: %v", lookup.RequestID, err)
	}

	err = b.lookupProduct(ctx, chatID, productURL)

	if notice != nil {
		if _, delErr := b.tgBot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: notice.ID}); delErr != nil {
			ErrorLogger.Printf("[%s] Error deleting processing notice: %v", lookup.RequestID, delErr)
		}
	}

	lookup.Outcome = errorOutcome(err)
	if err != nil {
		lookup.Detail = err.Error()
		ErrorLogger.Printf("[%s] Lookup of %s failed: %v", lookup.RequestID, productURL, err)
		b.sendResponse(ctx, chatID, userMessage(err))
	} else {
		InfoLogger.Printf("[%s] Lookup of %s delivered", lookup.RequestID, productURL)
	}
	b.recordLookup(lookup)
}

// lookupProduct is the extract, compose, deliver pipeline for one URL.
func (b *Bot) lookupProduct(ctx context.Context, chatID int64, productURL string) error {
	info, err := b.extractor.Extract(ctx, productURL)
	if err != nil {
		return err
	}

	reply, err := b.composer.Compose(ctx, info)
	if err != nil {
		return err
	}

	return b.composer.Deliver(ctx, b.tgBot, chatID, reply)
}
