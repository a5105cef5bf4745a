package main

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"path"
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	// Telegram Bot API limits.
	mediaGroupLimit  = 10
	captionLimit     = 1024
	maxPhotoBytes    = 10 << 20
	sniffContentSize = 512
)

const (
	msgAllSent        = "All product information has been sent!"
	msgNoImages       = "No product images found."
	msgImagesDownload = "Failed to download product images."
)

// Photo is a downloaded product image ready for upload.
type Photo struct {
	Filename  string
	SourceURL string
	Data      []byte
}

// Reply is the composed answer for one product.
type Reply struct {
	Text   string
	Photos []Photo
	// ImagesFound is the number of image URLs on the page, before downloads.
	ImagesFound int
}

// Composer turns ProductInfo into a Reply and sends it.
type Composer struct {
	fetcher   *Fetcher
	maxImages int
}

func NewComposer(fetcher *Fetcher, maxImages int) *Composer {
	return &Composer{fetcher: fetcher, maxImages: maxImages}
}

// Compose formats info and downloads its images. Images that fail to download
// or are not images are skipped.
func (c *Composer) Compose(ctx context.Context, info *ProductInfo) (*Reply, error) {
	reply := &Reply{
		Text:        formatProduct(info),
		ImagesFound: len(info.ImageURLs),
	}

	urls := info.ImageURLs
	if c.maxImages > 0 && len(urls) > c.maxImages {
		urls = urls[:c.maxImages]
	}
	for i, imageURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, &NetworkError{URL: imageURL, Err: err}
		}
		data, err := c.downloadImage(ctx, imageURL)
		if err != nil {
			ErrorLogger.Printf("Error downloading image %s: %v", imageURL, err)
			continue
		}
		reply.Photos = append(reply.Photos, Photo{
			Filename:  imageFilename(i, imageURL),
			SourceURL: imageURL,
			Data:      data,
		})
	}
	return reply, nil
}

func (c *Composer) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	resp, err := c.fetcher.Get(ctx, imageURL, "image/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, &NetworkError{URL: imageURL, Err: err}
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxPhotoBytes)
	}
	sniff := data
	if len(sniff) > sniffContentSize {
		sniff = sniff[:sniffContentSize]
	}
	if ct := http.DetectContentType(sniff); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("unexpected content type %q", ct)
	}
	return data, nil
}

// formatProduct renders the product details as Telegram HTML.
func formatProduct(info *ProductInfo) string {
	sizes := "No sizes available"
	if len(info.Sizes) > 0 {
		sizes = strings.Join(info.Sizes, ", ")
	}
	return fmt.Sprintf("<b>%s</b>\n\n<b>Price:</b> %s\n\n<b>Available Sizes:</b> %s",
		html.EscapeString(info.Name),
		html.EscapeString(info.Price.String()),
		html.EscapeString(sizes),
	)
}

func imageFilename(i int, imageURL string) string {
	ext := ".jpg"
	if e := path.Ext(strings.SplitN(imageURL, "?", 2)[0]); e == ".png" || e == ".webp" || e == ".jpeg" {
		ext = e
	}
	return fmt.Sprintf("product_%d%s", i+1, ext)
}

// Deliver sends reply to chatID. Any Telegram rejection is returned as *DeliveryError.
func (c *Composer) Deliver(ctx context.Context, tg TelegramClient, chatID int64, reply *Reply) error {
	if len(reply.Photos) == 0 {
		if err := sendText(ctx, tg, chatID, reply.Text, models.ParseModeHTML); err != nil {
			return err
		}
		notice := msgNoImages
		if reply.ImagesFound > 0 {
			notice = msgImagesDownload
		}
		return sendText(ctx, tg, chatID, notice, "")
	}

	caption := reply.Text
	if captionLength(caption) > captionLimit {
		if err := sendText(ctx, tg, chatID, reply.Text, models.ParseModeHTML); err != nil {
			return err
		}
		caption = ""
	}

	for start := 0; start < len(reply.Photos); start += mediaGroupLimit {
		end := min(start+mediaGroupLimit, len(reply.Photos))
		batchCaption := ""
		if start == 0 {
			batchCaption = caption
		}
		if err := sendPhotos(ctx, tg, chatID, reply.Photos[start:end], batchCaption); err != nil {
			return err
		}
	}
	return sendText(ctx, tg, chatID, msgAllSent, "")
}

// sendPhotos sends one batch: a single photo via sendPhoto, otherwise a media group.
func sendPhotos(ctx context.Context, tg TelegramClient, chatID int64, photos []Photo, caption string) error {
	var parseMode models.ParseMode
	if caption != "" {
		parseMode = models.ParseModeHTML
	}

	if len(photos) == 1 {
		_, err := tg.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:    chatID,
			Photo:     &models.InputFileUpload{Filename: photos[0].Filename, Data: bytes.NewReader(photos[0].Data)},
			Caption:   caption,
			ParseMode: parseMode,
		})
		if err != nil {
			return &DeliveryError{Err: err}
		}
		return nil
	}

	media := make([]models.InputMedia, 0, len(photos))
	for i, p := range photos {
		item := &models.InputMediaPhoto{
			Media:           "attach://" + p.Filename,
			MediaAttachment: bytes.NewReader(p.Data),
		}
		if i == 0 {
			item.Caption = caption
			item.ParseMode = parseMode
		}
		media = append(media, item)
	}
	if _, err := tg.SendMediaGroup(ctx, &bot.SendMediaGroupParams{ChatID: chatID, Media: media}); err != nil {
		return &DeliveryError{Err: err}
	}
	return nil
}

// captionLength counts UTF-16 code units, the unit Telegram limits captions by.
func captionLength(caption string) int {
	return len(utf16.Encode([]rune(caption)))
}

func sendText(ctx context.Context, tg TelegramClient, chatID int64, text string, parseMode models.ParseMode) error {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	})
	if err != nil {
		return &DeliveryError{Err: err}
	}
	return nil
}
