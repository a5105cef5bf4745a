package main

import (
	"fmt"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	netErr := &NetworkError{URL: "https://www.namshi.com/x/p/", StatusCode: 503}
	extractErr := &ExtractionError{Missing: []string{fieldPrice}}
	deliveryErr := &DeliveryError{Err: errors.New("Bad Request: chat not found")}

	assert.ErrorIs(t, netErr, ErrNetwork)
	assert.ErrorIs(t, fmt.Errorf("lookup: %w", netErr), ErrNetwork)
	assert.ErrorIs(t, extractErr, ErrExtraction)
	assert.ErrorIs(t, deliveryErr, ErrDelivery)
	assert.NotErrorIs(t, netErr, ErrExtraction)

	assert.Contains(t, netErr.Error(), "503")
	assert.Equal(t, "extract product: missing price", extractErr.Error())
}

func TestErrorOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, errorOutcome(nil))
	assert.Equal(t, OutcomeInvalidURL, errorOutcome(ErrInvalidURL))
	assert.Equal(t, OutcomeNetworkError, errorOutcome(&NetworkError{URL: "u", Err: errors.New("timeout")}))
	assert.Equal(t, OutcomeExtractionError, errorOutcome(&ExtractionError{Missing: []string{fieldName}}))
	assert.Equal(t, OutcomeDeliveryError, errorOutcome(&DeliveryError{Err: errors.New("x")}))
	assert.Equal(t, OutcomeInternalError, errorOutcome(errors.New("boom")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, usageMessage, userMessage(ErrInvalidURL))
	assert.Contains(t, userMessage(&NetworkError{URL: "u", StatusCode: 404}), "couldn't load")
	assert.Contains(t, userMessage(&ExtractionError{Missing: []string{fieldName, fieldPrice}}), "missing: name, price")
	assert.Contains(t, userMessage(&DeliveryError{Err: errors.New("x")}), "sending the product details")
	assert.Contains(t, userMessage(errors.New("boom")), "trouble processing")
}
