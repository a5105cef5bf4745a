package main

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// Failure categories surfaced to users. Concrete errors match them with errors.Is.
var (
	ErrInvalidURL = errors.New("invalid product url")
	ErrNetwork    = errors.New("network error")
	ErrExtraction = errors.New("extraction error")
	ErrDelivery   = errors.New("delivery error")
)

// NetworkError reports a failed fetch of a product page or image.
// StatusCode is zero when no response was received.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ExtractionError is returned when the page was fetched but required fields
// were not found. Partial holds whatever was found.
type ExtractionError struct {
	Missing []string
	Partial *ProductInfo
}

func (e *ExtractionError) Error() string {
	return "extract product: missing " + strings.Join(e.Missing, ", ")
}

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

// DeliveryError wraps a rejection from the Telegram API.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return "deliver reply: " + e.Err.Error() }

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }

// errorOutcome returns the activity log outcome for err.
func errorOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidURL):
		return OutcomeInvalidURL
	case errors.Is(err, ErrNetwork):
		return OutcomeNetworkError
	case errors.Is(err, ErrExtraction):
		return OutcomeExtractionError
	case errors.Is(err, ErrDelivery):
		return OutcomeDeliveryError
	default:
		return OutcomeInternalError
	}
}

// userMessage converts err into the single reply shown to the user.
func userMessage(err error) string {
	var extractErr *ExtractionError
	switch {
	case errors.Is(err, ErrInvalidURL):
		return usageMessage
	case errors.Is(err, ErrNetwork):
		return "Sorry, I couldn't load that product page. Please check the link or try again later."
	case errors.As(err, &extractErr):
		return fmt.Sprintf("Sorry, I couldn't read this product page (missing: %s). The page layout may have changed.",
			strings.Join(extractErr.Missing, ", "))
	case errors.Is(err, ErrDelivery):
		return "Sorry, something went wrong while sending the product details."
	default:
		return "I'm sorry, I'm having trouble processing your request right now."
	}
}
