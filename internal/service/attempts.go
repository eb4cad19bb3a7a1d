package service

import (
	"errors"
	"time"

	"cinestore/config"
	"cinestore/pkg/clock"
)

var ErrTooManyAttempts = errors.New("too many payment attempts")

// AttemptCounter is the slice of the ledger the limiter needs.
type AttemptCounter interface {
	CountByPhoneSince(phone string, since time.Time) (int64, error)
}

// AttemptLimiter derives per-phone attempt counts from the purchase
// ledger over sliding hourly and monthly windows. It must run before
// the attempt's own ledger row is written, so the new attempt is not
// counted against itself.
type AttemptLimiter struct {
	ledger AttemptCounter
	cfg    config.AttemptLimitConfig
	clock  clock.Clock
}

func NewAttemptLimiter(ledger AttemptCounter, cfg config.AttemptLimitConfig, clk clock.Clock) *AttemptLimiter {
	return &AttemptLimiter{ledger: ledger, cfg: cfg, clock: clk}
}

// Check returns ErrTooManyAttempts when the phone has reached either
// cap, or a storage error when the ledger is unreadable.
func (l *AttemptLimiter) Check(phone string) error {
	now := l.clock.Now()
	hourly, err := l.ledger.CountByPhoneSince(phone, now.Add(-l.cfg.HourWindow))
	if err != nil {
		return err
	}
	monthly, err := l.ledger.CountByPhoneSince(phone, now.Add(-l.cfg.MonthWindow))
	if err != nil {
		return err
	}
	if hourly >= int64(l.cfg.HourlyMax) || monthly >= int64(l.cfg.MonthlyMax) {
		return ErrTooManyAttempts
	}
	return nil
}
