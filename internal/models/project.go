package models

import "time"

// Project groups mockups created from a single submission flow.
type Project struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Owning user ID.
	User   User   `gorm:"foreignKey:UserID"` // Owning user record.

	Name        string `gorm:"type:varchar(255);not null"` // Project display name.
	Description string `gorm:"type:text"`                  // Short description, defaults to the prompt prefix.

	Mockups []Mockup `gorm:"foreignKey:ProjectID"` // Related mockups.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
