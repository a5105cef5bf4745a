package main

import (
	"log"
	"time"

	"github.com/go-faster/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func initDB(path string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Lookup{}); err != nil {
		return errors.Wrap(err, "failed to migrate database schema")
	}
	return nil
}

// upsertUser creates the user on first contact and keeps names current.
func (b *Bot) upsertUser(telegramID int64, username, firstName string) (User, error) {
	var user User
	err := b.db.Where(User{TelegramID: telegramID}).
		Attrs(User{Username: username, FirstName: firstName}).
		FirstOrCreate(&user).Error
	if err != nil {
		return User{}, errors.Wrap(err, "get or create user")
	}

	if user.Username != username || user.FirstName != firstName {
		user.Username = username
		user.FirstName = firstName
		if err := b.db.Save(&user).Error; err != nil {
			return user, errors.Wrap(err, "update user")
		}
	}
	return user, nil
}

func (b *Bot) recordLookup(lookup Lookup) {
	if err := b.db.Create(&lookup).Error; err != nil {
		ErrorLogger.Printf("[%s] Error storing lookup: %v", lookup.RequestID, err)
	}
}

// getStats returns the user count, lookup count and per-outcome breakdown.
func (b *Bot) getStats() (int64, int64, []OutcomeCount, error) {
	var totalUsers int64
	if err := b.db.Model(&User{}).Count(&totalUsers).Error; err != nil {
		return 0, 0, nil, err
	}

	var totalLookups int64
	if err := b.db.Model(&Lookup{}).Count(&totalLookups).Error; err != nil {
		return 0, 0, nil, err
	}

	var outcomes []OutcomeCount
	err := b.db.Model(&Lookup{}).
		Select("outcome, count(*) as count").
		Group("outcome").
		Order("count desc, outcome asc").
		Scan(&outcomes).Error
	if err != nil {
		return 0, 0, nil, err
	}
	return totalUsers, totalLookups, outcomes, nil
}
