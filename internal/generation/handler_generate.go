package generation

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uisketch/uisketch/internal/ai"
	"github.com/uisketch/uisketch/internal/jobs"
	"github.com/uisketch/uisketch/internal/models"
)

// GenerateHandler runs the variation generation pipeline for one
// pending mockup. Each step is checkpointed so a retried job does not
// call the model again once a usable completion exists.
type GenerateHandler struct {
	db  *gorm.DB
	gen ai.TextGenerator
}

// NewGenerateHandler wires the generation job handler.
func NewGenerateHandler(db *gorm.DB, gen ai.TextGenerator) *GenerateHandler {
	return &GenerateHandler{db: db, gen: gen}
}

// Handle moves the mockup to GENERATING, asks the model for three
// variations, persists the survivors, and completes the mockup.
func (h *GenerateHandler) Handle(ctx context.Context, run *jobs.Run) error {
	var payload GeneratePayload
	if errDecode := run.Unmarshal(&payload); errDecode != nil {
		return errDecode
	}

	if _, errStep := jobs.RunStep(run, "update-status-generating", func() (struct{}, error) {
		return struct{}{}, h.transition(payload.MockupID, models.StatusGenerating)
	}); errStep != nil {
		return errStep
	}

	// Tokens are counted inside the step so a replayed checkpoint
	// does not add them again on a later attempt.
	result, errStep := jobs.RunStep(run, "generate-variations", func() (ai.VariationsResult, error) {
		res, errGen := ai.GenerateVariations(ctx, h.gen, payload.Prompt, payload.Library, payload.Device, payload.Tier)
		run.AddTokens(res.TokensUsed)
		return res, errGen
	})
	if errStep != nil {
		return errStep
	}

	if _, errStep := jobs.RunStep(run, "persist-variations", func() (struct{}, error) {
		return struct{}{}, h.persist(payload, result.Variations)
	}); errStep != nil {
		return errStep
	}
	return nil
}

// persist writes the surviving variations as version rows, mirrors the
// first variation into the mockup's canonical code, and completes the
// mockup. The version upsert makes a replayed step harmless.
func (h *GenerateHandler) persist(payload GeneratePayload, variations []ai.Variation) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		for _, v := range variations {
			row := models.MockupVersion{
				MockupID: payload.MockupID,
				Version:  v.Index,
				Prompt:   payload.Prompt,
				Code:     v.Code,
			}
			errUpsert := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "mockup_id"}, {Name: "version"}},
				DoUpdates: clause.AssignmentColumns([]string{"code", "prompt"}),
			}).Create(&row).Error
			if errUpsert != nil {
				return fmt.Errorf("generation: persist version %d: %w", v.Index, errUpsert)
			}
		}
		return tx.Model(&models.Mockup{}).Where("id = ?", payload.MockupID).Updates(map[string]any{
			"code":   variations[0].Code,
			"status": models.StatusCompleted,
		}).Error
	})
}

// transition applies a status change only when it moves forward.
func (h *GenerateHandler) transition(mockupID uint64, next models.MockupStatus) error {
	var mockup models.Mockup
	if errFind := h.db.First(&mockup, "id = ?", mockupID).Error; errFind != nil {
		return fmt.Errorf("generation: load mockup %d: %w", mockupID, errFind)
	}
	if !mockup.Status.CanTransitionTo(next) {
		if mockup.Status == next {
			return nil
		}
		return fmt.Errorf("generation: mockup %d cannot move %s -> %s", mockupID, mockup.Status, next)
	}
	return h.db.Model(&mockup).Update("status", next).Error
}

// OnExhausted marks the mockup failed and stores the diagnostic in its
// code column where the client surfaces it.
func (h *GenerateHandler) OnExhausted(_ context.Context, run *jobs.Run, cause error) {
	var payload GeneratePayload
	if errDecode := run.Unmarshal(&payload); errDecode != nil {
		log.Errorf("generation: exhausted job payload: %v", errDecode)
		return
	}
	errSave := h.db.Model(&models.Mockup{}).
		Where("id = ? AND status NOT IN ?", payload.MockupID,
			[]models.MockupStatus{models.StatusCompleted, models.StatusFailed}).
		Updates(map[string]any{
			"code":   "// Generation failed: " + cause.Error(),
			"status": models.StatusFailed,
		}).Error
	if errSave != nil {
		log.Errorf("generation: mark mockup %d failed: %v", payload.MockupID, errSave)
	}
}
