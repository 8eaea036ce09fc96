package models

import "time"

// CheckinEvent stores one row per successful daily check-in. Rows are written
// once by the check-in service and never updated: StreakLength and Multiplier
// record what the user was credited for at the time, not a derivable view.
//
// Day is an ISO calendar date (YYYY-MM-DD) in the configured reference zone.
// Storing the date as a string keeps equality checks free of DATE-column
// timezone surprises across drivers.
type CheckinEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index;uniqueIndex:idx_checkin_user_day" json:"user_id"`
	Day           string    `gorm:"size:10;not null;index;uniqueIndex:idx_checkin_user_day" json:"day"`
	RewardKind    string    `gorm:"size:16;not null" json:"reward_kind"`
	BalanceCredit int64     `gorm:"not null;default:0" json:"balance_credit"`
	TrafficCredit int64     `gorm:"not null;default:0" json:"traffic_credit"`
	StreakLength  int       `gorm:"not null" json:"streak_length"`
	Multiplier    string    `gorm:"size:16;not null;default:'1.00'" json:"multiplier"`
	IPAddress     string    `gorm:"size:45" json:"ip_address"`
	UserAgent     string    `gorm:"size:255" json:"user_agent"`
	CreatedAt     time.Time `json:"created_at"`
}
