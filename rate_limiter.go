package main

import (
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	hourlyLimiter *rate.Limiter
	dailyLimiter  *rate.Limiter
	lastReset     time.Time
	banUntil      time.Time
}

func (b *Bot) newHourlyLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Hour/time.Duration(b.config.LookupsPerHour)), b.config.LookupsPerHour)
}

func (b *Bot) newDailyLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(b.config.LookupsPerDay)), b.config.LookupsPerDay)
}

// checkRateLimits spends one lookup from the user's budgets. Exceeding either
// budget bans the user for TempBanDuration.
func (b *Bot) checkRateLimits(userID int64) bool {
	b.userLimitersMu.Lock()
	defer b.userLimitersMu.Unlock()

	now := b.clock.Now()

	limiter, exists := b.userLimiters[userID]
	if !exists {
		limiter = &userLimiter{
			hourlyLimiter: b.newHourlyLimiter(),
			dailyLimiter:  b.newDailyLimiter(),
			lastReset:     now,
		}
		b.userLimiters[userID] = limiter
	}

	if now.Before(limiter.banUntil) {
		return false
	}

	if now.Sub(limiter.lastReset) >= 24*time.Hour {
		limiter.dailyLimiter = b.newDailyLimiter()
		limiter.lastReset = now
	}

	// Both budgets are checked before either is spent.
	hourly := limiter.hourlyLimiter.TokensAt(now)
	daily := limiter.dailyLimiter.TokensAt(now)
	if hourly < 1 || daily < 1 {
		limiter.banUntil = now.Add(b.config.TempBanDuration)
		return false
	}
	limiter.hourlyLimiter.AllowN(now, 1)
	limiter.dailyLimiter.AllowN(now, 1)
	return true
}
