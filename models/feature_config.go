package models

import "time"

// FeatureConfig holds one JSON settings blob per feature namespace
// (e.g. "daily_checkin"). The engine reads it at the start of each operation;
// admins update it through the admin API.
type FeatureConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Namespace string    `gorm:"size:64;not null;uniqueIndex" json:"namespace"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
