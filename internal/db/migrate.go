package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uisketch/uisketch/internal/models"
	internalsettings "github.com/uisketch/uisketch/internal/settings"
	"gorm.io/gorm"
)

// Migrate runs database migrations and seeds default settings.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Project{},
		&models.Mockup{},
		&models.MockupVersion{},
		&models.Job{},
		&models.Setting{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	if errSeed := ensureDefaultSettings(conn); errSeed != nil {
		return errSeed
	}

	// ddl defines an index statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_projects_user_id_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_projects_user_id_created_at
				ON projects (user_id, created_at DESC)
			`,
		},
		{
			name: "idx_mockups_project_id_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_mockups_project_id_created_at
				ON mockups (project_id, created_at DESC)
			`,
		},
		{
			name: "idx_mockups_status_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_mockups_status_created_at
				ON mockups (status, created_at DESC)
			`,
		},
		{
			name: "idx_jobs_status_run_after",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_jobs_status_run_after
				ON jobs (status, run_after ASC)
			`,
		},
		{
			name: "idx_jobs_kind_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_jobs_kind_created_at
				ON jobs (kind, created_at DESC)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	return nil
}

// ensureDefaultSettings seeds settings rows that are missing or empty.
func ensureDefaultSettings(conn *gorm.DB) error {
	if errEnsure := ensureIntSetting(conn, internalsettings.FreeTierCreditsKey, internalsettings.DefaultFreeTierCredits); errEnsure != nil {
		return errEnsure
	}
	if errEnsure := ensureIntSetting(conn, internalsettings.CreditsResetIntervalDaysKey, internalsettings.DefaultCreditsResetIntervalDays); errEnsure != nil {
		return errEnsure
	}
	if errEnsure := ensureIntSetting(conn, internalsettings.JobMaxConcurrencyKey, internalsettings.DefaultJobMaxConcurrency); errEnsure != nil {
		return errEnsure
	}
	if errEnsure := ensureIntSetting(conn, internalsettings.JobPollIntervalSecondsKey, internalsettings.DefaultJobPollIntervalSeconds); errEnsure != nil {
		return errEnsure
	}
	return ensureIntSetting(conn, internalsettings.RateLimitKey, internalsettings.DefaultRateLimit)
}

// ensureIntSetting ensures an integer setting exists and defaults when empty.
func ensureIntSetting(conn *gorm.DB, key string, value int) error {
	payload, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return fmt.Errorf("db: marshal %s setting: %w", key, errMarshal)
	}
	rawValue := json.RawMessage(payload)

	var existing models.Setting
	if errFind := conn.Where("key = ?", key).First(&existing).Error; errFind == nil {
		trimmed := strings.TrimSpace(string(existing.Value))
		if len(existing.Value) == 0 || trimmed == "" || trimmed == "null" {
			if errUpdate := conn.Model(&existing).Updates(map[string]any{
				"value":      rawValue,
				"updated_at": time.Now().UTC(),
			}).Error; errUpdate != nil {
				return fmt.Errorf("db: update %s setting: %w", key, errUpdate)
			}
		}
		return nil
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: query %s setting: %w", key, errFind)
	}

	setting := models.Setting{
		Key:       key,
		Value:     rawValue,
		UpdatedAt: time.Now().UTC(),
	}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		return fmt.Errorf("db: create %s setting: %w", key, errCreate)
	}
	return nil
}
