package models

import "time"

// Admin represents an operator account for the admin surface.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:varchar(64);not null;uniqueIndex"` // Unique login name.
	Password string `gorm:"type:text;not null"`                    // Hashed password.
	Active   bool   `gorm:"not null;default:true"`                 // Login allowed flag.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
