package checkin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/panelkit/daily-checkin/models"
)

// ErrEventNotFound is returned by the admin paths for an unknown event id.
var ErrEventNotFound = errors.New("check-in record not found")

// RecordFilter narrows the admin record listing. Zero values mean "no filter";
// dates are ISO strings, inclusive on both ends.
type RecordFilter struct {
	UserID   uint
	StartDay string
	EndDay   string
	Page     int
	Limit    int
}

// Records lists check-in events for the admin screens, newest first.
func (s *Service) Records(ctx context.Context, f RecordFilter) ([]models.CheckinEvent, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	q := s.db.WithContext(ctx).Model(&models.CheckinEvent{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.StartDay != "" {
		q = q.Where("day >= ?", f.StartDay)
	}
	if f.EndDay != "" {
		q = q.Where("day <= ?", f.EndDay)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var events []models.CheckinEvent
	err := q.Order("created_at DESC").Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Find(&events).Error
	return events, total, err
}

// DeleteEvent removes a historical record and compensates the aggregate by
// subtracting that record's counted contribution, clamped at zero. The streak
// fields are deliberately left alone: this is an audit-only removal, not a
// re-derivation of streak history.
func (s *Service) DeleteEvent(ctx context.Context, eventID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.CheckinEvent
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var stats models.CheckinStats
		err := tx.Where("user_id = ?", event.UserID).First(&stats).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			stats.TotalCheckins = clampInt64(stats.TotalCheckins - 1)
			stats.TotalBalanceEarned = clampInt64(stats.TotalBalanceEarned - event.BalanceCredit)
			stats.TotalTrafficEarned = clampInt64(stats.TotalTrafficEarned - event.TrafficCredit)
			if err := tx.Save(&stats).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.CheckinEvent{}, event.ID).Error
	})
}

// ResetUserStreak zeroes the user's current streak only; totals and the best
// streak survive the reset.
func (s *Service) ResetUserStreak(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.CheckinStats{}).
		Where("user_id = ?", userID).
		Update("current_streak", 0).Error
}

func clampInt64(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
