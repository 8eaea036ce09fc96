package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a panel account. Only the fields the check-in engine touches
// are modelled here; the user entity itself is owned by the panel core.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"size:255;uniqueIndex" json:"email"`
	Balance        int64          `gorm:"not null;default:0" json:"balance"`
	TransferEnable int64          `gorm:"not null;default:0" json:"transfer_enable"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
