package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/models"
)

// JobHandler exposes the background queue for operations.
type JobHandler struct {
	db *gorm.DB
}

// NewJobHandler constructs a JobHandler.
func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{db: db}
}

// List returns queue rows with optional status and kind filters.
func (h *JobHandler) List(c *gin.Context) {
	var (
		statusQ = strings.TrimSpace(c.Query("status"))
		kindQ   = strings.TrimSpace(c.Query("kind"))
		limitQ  = strings.TrimSpace(c.Query("limit"))
	)

	limit := 100
	if limitQ != "" {
		if n, errParse := strconv.Atoi(limitQ); errParse == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Job{})
	if statusQ != "" {
		q = q.Where("status = ?", statusQ)
	}
	if kindQ != "" {
		q = q.Where("kind = ?", kindQ)
	}

	var rows []models.Job
	if errFind := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list jobs failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, job := range rows {
		out = append(out, gin.H{
			"id":           job.ID,
			"kind":         job.Kind,
			"status":       job.Status,
			"attempts":     job.Attempts,
			"max_attempts": job.MaxAttempts,
			"last_error":   job.LastError,
			"tokens_used":  job.TokensUsed,
			"run_after":    job.RunAfter,
			"created_at":   job.CreatedAt,
			"updated_at":   job.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

// Retry requeues a failed job for another attempt cycle.
func (h *JobHandler) Retry(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.JobStatusFailed).
		Updates(map[string]any{
			"status":   models.JobStatusQueued,
			"attempts": 0,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "retry job failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "failed job not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": models.JobStatusQueued})
}
