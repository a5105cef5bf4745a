package main

import (
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// BotConfig is read from the environment, optionally seeded from a .env file.
type BotConfig struct {
	// TelegramToken is the only required setting.
	TelegramToken   string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	OwnerTelegramID int64  `envconfig:"OWNER_TELEGRAM_ID"`
	DatabasePath    string `envconfig:"DATABASE_PATH" default:"bot.db"`

	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	UserAgent     string        `envconfig:"USER_AGENT"`
	ImageWidth    int           `envconfig:"IMAGE_WIDTH" default:"800"`
	MaxImages     int           `envconfig:"MAX_IMAGES" default:"20"`
	RespectRobots bool          `envconfig:"RESPECT_ROBOTS" default:"false"`

	LookupsPerHour  int           `envconfig:"LOOKUPS_PER_HOUR" default:"30"`
	LookupsPerDay   int           `envconfig:"LOOKUPS_PER_DAY" default:"200"`
	TempBanDuration time.Duration `envconfig:"TEMP_BAN_DURATION" default:"10m"`
}

// loadConfig loads .env when present and processes the environment.
func loadConfig() (BotConfig, error) {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			ErrorLogger.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var config BotConfig
	if err := envconfig.Process("", &config); err != nil {
		return config, errors.Wrap(err, "process environment")
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c BotConfig) Validate() error {
	switch {
	case c.TelegramToken == "":
		return errors.New("TELEGRAM_BOT_TOKEN must not be empty")
	case c.FetchTimeout < 0:
		return errors.New("FETCH_TIMEOUT must not be negative")
	case c.ImageWidth < 0:
		return errors.New("IMAGE_WIDTH must not be negative")
	case c.MaxImages < 0:
		return errors.New("MAX_IMAGES must not be negative")
	case c.LookupsPerHour <= 0:
		return errors.New("LOOKUPS_PER_HOUR must be positive")
	case c.LookupsPerDay <= 0:
		return errors.New("LOOKUPS_PER_DAY must be positive")
	case c.TempBanDuration < 0:
		return errors.New("TEMP_BAN_DURATION must not be negative")
	}
	return nil
}
