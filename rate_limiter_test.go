package main

import (
	"testing"
	"time"
)

func newRateLimitedBot(config BotConfig, clock Clock) *Bot {
	return &Bot{
		config:       config,
		userLimiters: make(map[int64]*userLimiter),
		clock:        clock,
	}
}

// TestCheckRateLimits verifies that users are allowed or denied based on
// their lookup rates.
func TestCheckRateLimits(t *testing.T) {
	mockClock := &MockClock{
		currentTime: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	config := testConfig()
	config.LookupsPerHour = 5
	config.LookupsPerDay = 10
	config.TempBanDuration = time.Minute

	bot := newRateLimitedBot(config, mockClock)
	userID := int64(12345)

	lookup := func() bool {
		return bot.checkRateLimits(userID)
	}

	for i := 0; i < config.LookupsPerHour; i++ {
		if !lookup() {
			t.Errorf("Expected lookup %d to be allowed", i+1)
		}
	}

	// 6th lookup exceeds the hourly limit and triggers a ban
	if lookup() {
		t.Errorf("Expected lookup to be denied due to hourly limit exceeded")
	}
	if lookup() {
		t.Errorf("Expected lookup to be denied while user is banned")
	}

	// Lift the ban and let the hourly limiter refill
	mockClock.Advance(time.Minute)
	mockClock.Advance(time.Hour)

	if !lookup() {
		t.Errorf("Expected lookup to be allowed after ban duration")
	}

	for i := 0; i < config.LookupsPerDay-config.LookupsPerHour-1; i++ {
		if !lookup() {
			t.Errorf("Expected lookup %d to be allowed towards daily limit", i+1)
		}
	}

	if lookup() {
		t.Errorf("Expected lookup to be denied due to daily limit exceeded")
	}
}

func TestCheckRateLimits_BanExpires(t *testing.T) {
	mockClock := &MockClock{currentTime: time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)}

	config := testConfig()
	config.LookupsPerHour = 1
	config.LookupsPerDay = 100
	config.TempBanDuration = 10 * time.Minute
	bot := newRateLimitedBot(config, mockClock)

	if !bot.checkRateLimits(1) {
		t.Fatal("Expected first lookup to be allowed")
	}
	if bot.checkRateLimits(1) {
		t.Fatal("Expected second lookup to be denied")
	}

	// Banned until 12:10, even though the hourly bucket is still empty at 12:09.
	mockClock.Advance(9 * time.Minute)
	if bot.checkRateLimits(1) {
		t.Fatal("Expected lookup to be denied during ban")
	}

	mockClock.Advance(time.Hour)
	if !bot.checkRateLimits(1) {
		t.Fatal("Expected lookup to be allowed after ban and refill")
	}
}

func TestCheckRateLimits_PerUser(t *testing.T) {
	mockClock := &MockClock{currentTime: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)}
	config := testConfig()
	config.LookupsPerHour = 1
	bot := newRateLimitedBot(config, mockClock)

	if !bot.checkRateLimits(1) || !bot.checkRateLimits(2) {
		t.Fatal("Expected each user to have an independent budget")
	}
	if bot.checkRateLimits(1) {
		t.Fatal("Expected user 1 to be limited")
	}
}

func TestCheckRateLimits_DailyReset(t *testing.T) {
	mockClock := &MockClock{currentTime: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)}
	config := testConfig()
	config.LookupsPerHour = 100
	config.LookupsPerDay = 2
	config.TempBanDuration = 0
	bot := newRateLimitedBot(config, mockClock)

	bot.checkRateLimits(7)
	bot.checkRateLimits(7)
	if bot.checkRateLimits(7) {
		t.Fatal("Expected daily limit to be reached")
	}

	mockClock.Advance(24 * time.Hour)
	for i := 0; i < config.LookupsPerDay; i++ {
		if !bot.checkRateLimits(7) {
			t.Fatalf("Expected lookup %d to be allowed after daily reset", i+1)
		}
	}
}
