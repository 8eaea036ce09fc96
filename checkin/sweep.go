package checkin

import (
	"context"
	"time"

	"github.com/panelkit/daily-checkin/models"
)

// SweepResult reports what one maintenance sweep did.
type SweepResult struct {
	ResetCount int `json:"reset_count"`
	Failed     int `json:"failed"`
}

// RunSweep zeroes the streak of every aggregate whose owner did not check in
// yesterday, so broken streaks become visible without waiting for the user's
// next action. Each candidate is double-checked against the event store before
// the reset. Idempotent: a second run in the same period finds current_streak
// already 0 and matches nothing. One user's failure never aborts the rest.
func (s *Service) RunSweep(ctx context.Context) (SweepResult, error) {
	today := s.clock.Today()
	yesterday := today.AddDays(-1)

	var candidates []models.CheckinStats
	err := s.db.WithContext(ctx).
		Where("current_streak > 0 AND last_checkin_day < ?", yesterday.String()).
		Find(&candidates).Error
	if err != nil {
		return SweepResult{}, err
	}

	var res SweepResult
	for _, stats := range candidates {
		// Re-read the event store in case the aggregate is stale.
		var acted int64
		err := s.db.WithContext(ctx).Model(&models.CheckinEvent{}).
			Where("user_id = ? AND day = ?", stats.UserID, yesterday.String()).
			Count(&acted).Error
		if err != nil {
			res.Failed++
			s.log.Errorw("sweep: event check failed", "user_id", stats.UserID, "error", err)
			continue
		}
		if acted > 0 {
			continue
		}

		err = s.db.WithContext(ctx).Model(&models.CheckinStats{}).
			Where("id = ? AND current_streak > 0", stats.ID).
			Update("current_streak", 0).Error
		if err != nil {
			res.Failed++
			s.log.Errorw("sweep: reset failed", "user_id", stats.UserID, "error", err)
			continue
		}
		res.ResetCount++
	}

	s.log.Infow("streak sweep finished", "day", today.String(), "reset", res.ResetCount, "failed", res.Failed)
	return res, nil
}

// StartSweepScheduler launches a background goroutine that runs the sweep
// shortly after each midnight of the reference zone. Best-effort: failures are
// logged and the next midnight is awaited regardless.
func (s *Service) StartSweepScheduler(offset time.Duration) {
	if offset <= 0 {
		offset = 5 * time.Minute
	}
	go func() {
		for {
			now := s.clock.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
				Add(24*time.Hour + offset)
			time.Sleep(next.Sub(now))
			if _, err := s.RunSweep(context.Background()); err != nil {
				s.log.Errorw("scheduled sweep failed", "error", err)
			}
		}
	}()
}
