// Package jobs provides a database-backed queue for asynchronous work.
// Jobs are durable rows claimed by an in-process dispatcher; handlers
// checkpoint intermediate step outputs so a retried job skips the steps
// that already completed.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/models"
)

// ErrDuplicate is returned by Enqueue when a live job with the same
// dedupe key already exists.
var ErrDuplicate = errors.New("jobs: duplicate job")

// Queue persists and claims background jobs.
type Queue struct {
	db *gorm.DB
}

// NewQueue wraps a database connection for job persistence.
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// maxAttemptsFor returns the retry budget for a job kind, counting the
// first run.
func maxAttemptsFor(kind models.JobKind) int {
	switch kind {
	case models.JobKindGenerate:
		return 3
	case models.JobKindEdit:
		return 2
	default:
		return 1
	}
}

// Enqueue persists a new queued job. A non-empty dedupe key rejects the
// insert while another job with the same key is still queued or running.
// Callers that omit the key get a random one so every row stays
// addressable by key.
func (q *Queue) Enqueue(kind models.JobKind, dedupeKey string, payload any) (*models.Job, error) {
	raw, errMarshal := json.Marshal(payload)
	if errMarshal != nil {
		return nil, fmt.Errorf("jobs: marshal payload: %w", errMarshal)
	}

	if dedupeKey == "" {
		dedupeKey = uuid.NewString()
	} else {
		var count int64
		errCount := q.db.Model(&models.Job{}).
			Where("dedupe_key = ? AND status IN ?", dedupeKey,
				[]models.JobStatus{models.JobStatusQueued, models.JobStatusRunning}).
			Count(&count).Error
		if errCount != nil {
			return nil, fmt.Errorf("jobs: check dedupe key: %w", errCount)
		}
		if count > 0 {
			return nil, ErrDuplicate
		}
	}

	job := &models.Job{
		Kind:        kind,
		DedupeKey:   dedupeKey,
		Payload:     datatypes.JSON(raw),
		Status:      models.JobStatusQueued,
		MaxAttempts: maxAttemptsFor(kind),
		RunAfter:    time.Now(),
	}
	if errCreate := q.db.Create(job).Error; errCreate != nil {
		return nil, fmt.Errorf("jobs: create job: %w", errCreate)
	}
	return job, nil
}

// claim moves the oldest eligible queued job to running and returns it.
// Returns gorm.ErrRecordNotFound when nothing is eligible.
func (q *Queue) claim() (*models.Job, error) {
	var job models.Job
	errClaim := q.db.Transaction(func(tx *gorm.DB) error {
		errFind := tx.
			Where("status = ? AND run_after <= ?", models.JobStatusQueued, time.Now()).
			Order("run_after, id").
			First(&job).Error
		if errFind != nil {
			return errFind
		}
		return tx.Model(&job).Updates(map[string]any{
			"status":   models.JobStatusRunning,
			"attempts": job.Attempts + 1,
		}).Error
	})
	if errClaim != nil {
		return nil, errClaim
	}
	job.Status = models.JobStatusRunning
	job.Attempts++
	return &job, nil
}

// finish records a terminal or retried outcome for a claimed job.
func (q *Queue) finish(job *models.Job, runErr error) error {
	updates := map[string]any{"tokens_used": job.TokensUsed}
	if runErr == nil {
		updates["status"] = models.JobStatusSucceeded
		updates["last_error"] = ""
	} else {
		updates["last_error"] = runErr.Error()
		if job.Attempts < job.MaxAttempts {
			updates["status"] = models.JobStatusQueued
			updates["run_after"] = time.Now().Add(backoff(job.Attempts))
		} else {
			updates["status"] = models.JobStatusFailed
		}
	}
	if errSave := q.db.Model(&models.Job{}).Where("id = ?", job.ID).Updates(updates).Error; errSave != nil {
		return fmt.Errorf("jobs: finish job %d: %w", job.ID, errSave)
	}
	return nil
}

// backoff returns the delay before the next attempt.
func backoff(attempt int) time.Duration {
	d := time.Duration(attempt*attempt) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// Get loads a job by id.
func (q *Queue) Get(id uint64) (*models.Job, error) {
	var job models.Job
	if errFind := q.db.First(&job, "id = ?", id).Error; errFind != nil {
		return nil, errFind
	}
	return &job, nil
}

// Run gives a handler access to the job being executed, including step
// checkpointing and token accounting.
type Run struct {
	queue *Queue
	job   *models.Job
}

// Job returns the row being executed.
func (r *Run) Job() *models.Job { return r.job }

// Unmarshal decodes the job payload into out.
func (r *Run) Unmarshal(out any) error {
	if errDecode := json.Unmarshal(r.job.Payload, out); errDecode != nil {
		return fmt.Errorf("jobs: decode payload: %w", errDecode)
	}
	return nil
}

// AddTokens accumulates provider token usage for the job row.
func (r *Run) AddTokens(n int) {
	if n > 0 {
		r.job.TokensUsed += n
	}
}

// RunStep executes fn once per job. The step output is persisted under
// name before RunStep returns, so a later attempt of the same job
// returns the stored output without calling fn again.
func RunStep[T any](r *Run, name string, fn func() (T, error)) (T, error) {
	var out T

	checkpoints := map[string]json.RawMessage{}
	if len(r.job.Checkpoints) > 0 {
		if errDecode := json.Unmarshal(r.job.Checkpoints, &checkpoints); errDecode != nil {
			return out, fmt.Errorf("jobs: decode checkpoints: %w", errDecode)
		}
	}
	if saved, ok := checkpoints[name]; ok {
		if errDecode := json.Unmarshal(saved, &out); errDecode != nil {
			return out, fmt.Errorf("jobs: decode checkpoint %q: %w", name, errDecode)
		}
		return out, nil
	}

	out, errRun := fn()
	if errRun != nil {
		return out, errRun
	}

	raw, errMarshal := json.Marshal(out)
	if errMarshal != nil {
		return out, fmt.Errorf("jobs: encode checkpoint %q: %w", name, errMarshal)
	}
	checkpoints[name] = raw
	blob, errMarshal := json.Marshal(checkpoints)
	if errMarshal != nil {
		return out, fmt.Errorf("jobs: encode checkpoints: %w", errMarshal)
	}
	r.job.Checkpoints = datatypes.JSON(blob)
	errSave := r.queue.db.Model(&models.Job{}).Where("id = ?", r.job.ID).
		Update("checkpoints", r.job.Checkpoints).Error
	if errSave != nil {
		return out, fmt.Errorf("jobs: persist checkpoint %q: %w", name, errSave)
	}
	return out, nil
}

// Handler executes one kind of job.
type Handler interface {
	// Handle runs the job to completion or returns an error to trigger
	// a retry while the attempt budget lasts.
	Handle(ctx context.Context, run *Run) error
	// OnExhausted runs once when a job fails its final attempt. It is
	// the place to write a terminal failure back to the domain rows.
	OnExhausted(ctx context.Context, run *Run, cause error)
}
