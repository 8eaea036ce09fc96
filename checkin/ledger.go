package checkin

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/panelkit/daily-checkin/models"
)

// Ledger applies earned credits to the user's balance and traffic quota. The
// transaction handle of the calling check-in is passed through so that a
// failed credit rolls the whole check-in back.
type Ledger interface {
	Credit(tx *gorm.DB, userID uint, balance, traffic int64) error
}

// RetryPolicy bounds a fallible call with a fixed inter-attempt delay. The
// policy is an explicit parameter rather than a hidden constant so callers can
// tune it per collaborator.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Do runs fn up to p.Attempts times, sleeping p.Delay between attempts, and
// returns the last error once attempts are exhausted. Attempts below 1 mean a
// single try.
func (p RetryPolicy) Do(fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Delay > 0 {
			time.Sleep(p.Delay)
		}
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
	}
	return err
}

// UserLedger credits the panel's own users table in place, the way the panel
// core does it. Retry covers transient driver failures; a missing user row is
// terminal.
type UserLedger struct {
	Retry RetryPolicy
}

// Credit adds the deltas to the user's balance and transfer quota atomically
// within the caller's transaction.
func (l UserLedger) Credit(tx *gorm.DB, userID uint, balance, traffic int64) error {
	if balance == 0 && traffic == 0 {
		return nil
	}
	return l.Retry.Do(func() error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", balance),
			"transfer_enable": gorm.Expr("transfer_enable + ?", traffic),
			"updated_at":      time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
