package generation

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/ai"
	"github.com/uisketch/uisketch/internal/jobs"
	"github.com/uisketch/uisketch/internal/models"
)

// EditHandler applies a model-driven edit to one persisted version.
// The parent mockup's status never changes; only the targeted version
// row is rewritten, plus the mockup's canonical code when the target
// is version 1.
type EditHandler struct {
	db  *gorm.DB
	gen ai.TextGenerator
}

// NewEditHandler wires the edit job handler.
func NewEditHandler(db *gorm.DB, gen ai.TextGenerator) *EditHandler {
	return &EditHandler{db: db, gen: gen}
}

// Handle asks the model for the edited fragment and overwrites the
// version in place.
func (h *EditHandler) Handle(ctx context.Context, run *jobs.Run) error {
	var payload EditPayload
	if errDecode := run.Unmarshal(&payload); errDecode != nil {
		return errDecode
	}

	result, errStep := jobs.RunStep(run, "edit-ui-code", func() (ai.EditResult, error) {
		res, errEdit := ai.EditCode(ctx, h.gen, payload.CurrentHTML, payload.EditPrompt, payload.Tier)
		run.AddTokens(res.TokensUsed)
		return res, errEdit
	})
	if errStep != nil {
		return errStep
	}

	if _, errStep := jobs.RunStep(run, "update-version", func() (struct{}, error) {
		return struct{}{}, h.overwrite(payload, result.Code)
	}); errStep != nil {
		return errStep
	}
	return nil
}

func (h *EditHandler) overwrite(payload EditPayload, code string) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		var version models.MockupVersion
		if errFind := tx.First(&version, "id = ?", payload.VersionID).Error; errFind != nil {
			return fmt.Errorf("generation: load version %d: %w", payload.VersionID, errFind)
		}
		errSave := tx.Model(&version).Updates(map[string]any{
			"code":   code,
			"prompt": payload.EditPrompt,
		}).Error
		if errSave != nil {
			return fmt.Errorf("generation: update version %d: %w", payload.VersionID, errSave)
		}
		if version.Version == 1 {
			errMirror := tx.Model(&models.Mockup{}).Where("id = ?", payload.MockupID).
				Update("code", code).Error
			if errMirror != nil {
				return fmt.Errorf("generation: mirror version 1 to mockup %d: %w", payload.MockupID, errMirror)
			}
		}
		return nil
	})
}

// OnExhausted leaves the stored rows untouched; a failed edit keeps
// the previous code visible.
func (h *EditHandler) OnExhausted(_ context.Context, run *jobs.Run, cause error) {
	var payload EditPayload
	if errDecode := run.Unmarshal(&payload); errDecode != nil {
		log.Errorf("generation: exhausted edit payload: %v", errDecode)
		return
	}
	log.WithFields(log.Fields{
		"version": payload.VersionID,
		"mockup":  payload.MockupID,
	}).Warnf("generation: edit abandoned: %v", cause)
}
