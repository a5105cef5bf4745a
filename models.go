package main

import (
	"gorm.io/gorm"
)

// Lookup outcomes stored in the activity log.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidURL      = "invalid_url"
	OutcomeRateLimited     = "rate_limited"
	OutcomeNetworkError    = "network_error"
	OutcomeExtractionError = "extraction_error"
	OutcomeDeliveryError   = "delivery_error"
	OutcomeInternalError   = "internal_error"
)

type User struct {
	gorm.Model
	TelegramID int64 `gorm:"uniqueIndex;not null"`
	Username   string
	FirstName  string
}

// Lookup records that a product request happened and how it ended. Extracted
// product data is not stored.
type Lookup struct {
	gorm.Model
	RequestID string `gorm:"uniqueIndex;size:36"`
	ChatID    int64  `gorm:"index"`
	UserID    int64  `gorm:"index"`
	URL       string
	Outcome   string `gorm:"index"`
	Detail    string `gorm:"type:text"`
}

// OutcomeCount is one row of the per-outcome /stats breakdown.
type OutcomeCount struct {
	Outcome string
	Count   int64
}
