package models

import "time"

// MockupVersion is one labeled HTML variation belonging to a mockup.
// Version numbers are unique and contiguous per mockup, starting at 1.
// Edits overwrite the targeted version's code in place.
type MockupVersion struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	MockupID uint64 `gorm:"not null;uniqueIndex:idx_mockup_versions_mockup_version,priority:1"` // Owning mockup ID.
	Mockup   Mockup `gorm:"foreignKey:MockupID"`                                                // Owning mockup record.

	Version int    `gorm:"not null;uniqueIndex:idx_mockup_versions_mockup_version,priority:2"` // Ordinal starting at 1.
	Prompt  string `gorm:"type:text;not null"`                                                 // Prompt that produced this code.
	Code    string `gorm:"type:text;not null"`                                                 // Validated HTML fragment.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
