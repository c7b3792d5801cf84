package models

import "time"

// DeviceType identifies the target device category for a mockup.
type DeviceType string

// DeviceType constants define the supported device categories.
const (
	// DeviceDesktop targets a 1280px canvas.
	DeviceDesktop DeviceType = "DESKTOP"
	// DeviceMobile targets a 390px canvas.
	DeviceMobile DeviceType = "MOBILE"
	// DeviceTablet targets a 768px canvas.
	DeviceTablet DeviceType = "TABLET"
	// DeviceBoth is responsive, rendered at the desktop width.
	DeviceBoth DeviceType = "BOTH"
)

// ValidDeviceType reports whether the value is a known device category.
func ValidDeviceType(v DeviceType) bool {
	switch v {
	case DeviceDesktop, DeviceMobile, DeviceTablet, DeviceBoth:
		return true
	}
	return false
}

// UILibrary identifies the style guide applied to generated mockups.
type UILibrary string

// UILibrary constants define the built-in style guides.
const (
	// LibraryShadcn applies the Shadcn/UI design language.
	LibraryShadcn UILibrary = "SHADCN"
	// LibraryMaterial applies Google's Material Design.
	LibraryMaterial UILibrary = "MATERIAL_UI"
	// LibraryAntDesign applies Ant Design's enterprise aesthetic.
	LibraryAntDesign UILibrary = "ANT_DESIGN"
	// LibraryAceternity applies a dark, animated glassmorphism aesthetic.
	LibraryAceternity UILibrary = "ACETERNITY"
)

// ValidUILibrary reports whether the value is a known style guide.
func ValidUILibrary(v UILibrary) bool {
	switch v {
	case LibraryShadcn, LibraryMaterial, LibraryAntDesign, LibraryAceternity:
		return true
	}
	return false
}

// ModelTier selects the AI model preset used for generation.
type ModelTier string

// ModelTier constants define the model presets.
const (
	// TierMini is the fast generation preset.
	TierMini ModelTier = "sketch-mini"
	// TierPro is the advanced generation preset.
	TierPro ModelTier = "sketch-pro"
)

// ValidModelTier reports whether the value is a known model preset.
func ValidModelTier(v ModelTier) bool {
	return v == TierMini || v == TierPro
}

// MockupStatus represents the generation lifecycle state of a mockup.
type MockupStatus string

// MockupStatus constants define the generation lifecycle states.
const (
	// StatusPending marks a mockup awaiting job pickup.
	StatusPending MockupStatus = "PENDING"
	// StatusGenerating marks a mockup whose generation job is running.
	StatusGenerating MockupStatus = "GENERATING"
	// StatusCompleted marks a mockup with at least one persisted variation.
	StatusCompleted MockupStatus = "COMPLETED"
	// StatusFailed marks a mockup whose generation ended without usable output.
	StatusFailed MockupStatus = "FAILED"
)

// Terminal reports whether the status admits no further automatic transition.
func (s MockupStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// rank orders statuses along the lifecycle so transitions never regress.
func (s MockupStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusGenerating:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving to next preserves status monotonicity.
func (s MockupStatus) CanTransitionTo(next MockupStatus) bool {
	if s.Terminal() {
		return false
	}
	return next.rank() > s.rank()
}

// Mockup is one generated screen with its canonical code snapshot.
type Mockup struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ProjectID uint64  `gorm:"not null;index"`       // Owning project ID.
	Project   Project `gorm:"foreignKey:ProjectID"` // Owning project record.

	Name   string `gorm:"type:varchar(255);not null"` // Display name derived from the prompt.
	Prompt string `gorm:"type:text;not null"`         // Original generation prompt.
	Code   string `gorm:"type:text"`                  // Canonical HTML, mirrors version 1. Holds the diagnostic on failure.

	DeviceType DeviceType   `gorm:"type:varchar(16);not null"`                          // Target device category.
	UILibrary  UILibrary    `gorm:"type:varchar(32);not null"`                          // Style guide selector.
	ModelTier  ModelTier    `gorm:"type:varchar(32);not null;default:'sketch-mini'"`   // AI model preset.
	Status     MockupStatus `gorm:"type:varchar(16);not null;default:'PENDING';index"` // Generation lifecycle state.

	Versions []MockupVersion `gorm:"foreignKey:MockupID"` // Related variations ordered by version.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
