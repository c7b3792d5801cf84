package models

import "time"

// Plan identifies a subscription tier.
type Plan string

// Plan constants define the supported subscription tiers.
const (
	// PlanFree is the credit-capped default tier.
	PlanFree Plan = "free"
	// PlanPro is the paid tier with unlimited generations.
	PlanPro Plan = "pro"
)

// User represents an end-user account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Email    string `gorm:"type:text;not null;uniqueIndex"` // Unique login email.
	Name     string `gorm:"type:text"`                      // Display name.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Plan           Plan      `gorm:"type:varchar(16);not null;default:'free';index"` // Active subscription tier.
	CreditsUsed    int       `gorm:"not null;default:0"`                             // Credits consumed this cycle.
	CreditsResetAt time.Time `gorm:"not null"`                                       // Start of the current credit cycle.

	StripeCustomerID   string `gorm:"type:text;index"`  // Billing provider customer ID.
	SubscriptionID     string `gorm:"type:text"`        // Active subscription ID, if any.
	SubscriptionStatus string `gorm:"type:varchar(32)"` // Raw subscription status from the billing provider.

	Projects []Project `gorm:"foreignKey:UserID"` // Related projects.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
