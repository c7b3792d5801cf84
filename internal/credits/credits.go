// Package credits tracks per-user generation allowances. Free accounts
// get a fixed number of generations per cycle; paid accounts are not
// metered.
package credits

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/models"
	"github.com/uisketch/uisketch/internal/settings"
)

// Snapshot is the credit state reported to clients.
type Snapshot struct {
	Plan      models.Plan `json:"plan"`
	Used      int         `json:"used"`
	Limit     int         `json:"limit"`     // 0 on unmetered plans
	Remaining int         `json:"remaining"` // -1 on unmetered plans
	ResetsAt  time.Time   `json:"resetsAt"`
}

// Service reads and mutates credit state.
type Service struct {
	db *gorm.DB
}

// NewService wraps a database connection.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Limit returns the free-tier generation cap currently in force.
func (s *Service) Limit() int {
	return settings.Int(s.db, settings.FreeTierCreditsKey, settings.DefaultFreeTierCredits)
}

func (s *Service) cycleLength() time.Duration {
	days := settings.Int(s.db, settings.CreditsResetIntervalDaysKey, settings.DefaultCreditsResetIntervalDays)
	if days < 1 {
		days = settings.DefaultCreditsResetIntervalDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// refresh rolls the user into a new cycle when the current one has
// lapsed. The reset is written back so concurrent readers converge.
func (s *Service) refresh(user *models.User) error {
	if time.Since(user.CreditsResetAt) < s.cycleLength() {
		return nil
	}
	now := time.Now()
	errSave := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"credits_used":     0,
		"credits_reset_at": now,
	}).Error
	if errSave != nil {
		return fmt.Errorf("credits: reset cycle for user %d: %w", user.ID, errSave)
	}
	user.CreditsUsed = 0
	user.CreditsResetAt = now
	return nil
}

// SnapshotFor reports the user's current allowance, rolling the cycle
// first if it has lapsed.
func (s *Service) SnapshotFor(user *models.User) (Snapshot, error) {
	if errRefresh := s.refresh(user); errRefresh != nil {
		return Snapshot{}, errRefresh
	}
	snap := Snapshot{
		Plan:     user.Plan,
		Used:     user.CreditsUsed,
		ResetsAt: user.CreditsResetAt.Add(s.cycleLength()),
	}
	if user.Plan == models.PlanPro {
		snap.Remaining = -1
		return snap, nil
	}
	snap.Limit = s.Limit()
	snap.Remaining = snap.Limit - snap.Used
	if snap.Remaining < 0 {
		snap.Remaining = 0
	}
	return snap, nil
}

// CanGenerate reports whether the user may start another generation.
// Paid plans always may.
func (s *Service) CanGenerate(user *models.User) (bool, error) {
	snap, errSnap := s.SnapshotFor(user)
	if errSnap != nil {
		return false, errSnap
	}
	return snap.Remaining != 0, nil
}

// Increment charges one credit. Called after a generation is accepted.
// Paid plans are not metered.
func (s *Service) Increment(user *models.User) error {
	if user.Plan == models.PlanPro {
		return nil
	}
	errSave := s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("credits_used", gorm.Expr("credits_used + 1")).Error
	if errSave != nil {
		return fmt.Errorf("credits: increment for user %d: %w", user.ID, errSave)
	}
	user.CreditsUsed++
	return nil
}

// SweepLapsedCycles resets every user whose cycle ended. Runs from the
// scheduler so long-idle accounts do not accumulate stale state.
func (s *Service) SweepLapsedCycles() (int64, error) {
	cutoff := time.Now().Add(-s.cycleLength())
	res := s.db.Model(&models.User{}).
		Where("credits_reset_at <= ?", cutoff).
		Updates(map[string]any{
			"credits_used":     0,
			"credits_reset_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("credits: sweep lapsed cycles: %w", res.Error)
	}
	return res.RowsAffected, nil
}
