package models

import "time"

// CheckinStats is the per-user running summary maintained alongside the event
// history. It is upserted lazily with zero defaults and mutated only by the
// check-in service, the nightly sweep, and the admin compensation paths.
//
// Invariants: CurrentStreak <= BestStreak; CurrentStreak > 0 implies
// LastCheckinDay is non-empty.
type CheckinStats struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	TotalCheckins      int64     `gorm:"not null;default:0" json:"total_checkins"`
	CurrentStreak      int       `gorm:"not null;default:0" json:"current_streak"`
	BestStreak         int       `gorm:"not null;default:0" json:"best_streak"`
	LastCheckinDay     string    `gorm:"size:10" json:"last_checkin_day"`
	FirstCheckinDay    string    `gorm:"size:10" json:"first_checkin_day"`
	TotalBalanceEarned int64     `gorm:"not null;default:0" json:"total_balance_earned"`
	TotalTrafficEarned int64     `gorm:"not null;default:0" json:"total_traffic_earned"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
