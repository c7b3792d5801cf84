package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobKind names a registered background job handler.
type JobKind string

// JobKind constants define the dispatchable job kinds.
const (
	// JobKindGenerate runs the multi-variation generation pipeline.
	JobKindGenerate JobKind = "mockup.generate"
	// JobKindEdit runs a single-version edit.
	JobKindEdit JobKind = "version.edit"
)

// JobStatus represents the lifecycle state of a background job.
type JobStatus string

// JobStatus constants define job lifecycle states.
const (
	// JobStatusQueued marks a job awaiting a worker.
	JobStatusQueued JobStatus = "queued"
	// JobStatusRunning marks a job claimed by a worker.
	JobStatusRunning JobStatus = "running"
	// JobStatusSucceeded marks a job whose handler returned without error.
	JobStatusSucceeded JobStatus = "succeeded"
	// JobStatusFailed marks a job that exhausted its retry budget.
	JobStatusFailed JobStatus = "failed"
)

// Job is a durable background work item executed at least once.
// Checkpoints memoize completed step outputs so a retried job resumes
// past steps that already ran.
type Job struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Kind      JobKind        `gorm:"type:varchar(64);not null;index"`              // Registered handler name.
	DedupeKey string         `gorm:"type:varchar(64);index"`                       // Caller-supplied dedupe key.
	Payload   datatypes.JSON `gorm:"type:text;not null"`                           // Handler input.
	Status    JobStatus      `gorm:"type:varchar(16);not null;default:'queued';index"` // Lifecycle state.

	Attempts    int            `gorm:"not null;default:0"` // Completed run attempts.
	MaxAttempts int            `gorm:"not null;default:1"` // Retry budget including the first run.
	Checkpoints datatypes.JSON `gorm:"type:text"`          // Step name to memoized output JSON.
	LastError   string         `gorm:"type:text"`          // Most recent handler error.
	TokensUsed  int            `gorm:"not null;default:0"` // Provider token usage reported by the handler.

	RunAfter  time.Time `gorm:"not null;index"`          // Earliest eligible run time.
	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
