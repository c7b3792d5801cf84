// Package generation owns the mockup lifecycle: accepting prompts,
// running the asynchronous generation and edit pipelines, and keeping
// mockup rows consistent with their versions.
package generation

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/credits"
	"github.com/uisketch/uisketch/internal/jobs"
	"github.com/uisketch/uisketch/internal/models"
)

// ErrCreditLimit rejects a submission from a free account that has
// spent its cycle allowance.
type ErrCreditLimit struct {
	Limit int
}

func (e *ErrCreditLimit) Error() string {
	return fmt.Sprintf("You've used all %d free generations this month. Upgrade to Pro for unlimited generations!", e.Limit)
}

// ErrNotOwner is returned when a caller references a mockup or version
// that belongs to another account.
var ErrNotOwner = errors.New("generation: resource not owned by caller")

// GeneratePayload is the queued input for a generation job.
type GeneratePayload struct {
	MockupID  uint64            `json:"mockupId"`
	ProjectID uint64            `json:"projectId"`
	UserID    uint64            `json:"userId"`
	Prompt    string            `json:"prompt"`
	Device    models.DeviceType `json:"deviceType"`
	Library   models.UILibrary  `json:"uiLibrary"`
	Tier      models.ModelTier  `json:"aiModel"`
}

// EditPayload is the queued input for a version edit job.
type EditPayload struct {
	VersionID   uint64           `json:"versionId"`
	MockupID    uint64           `json:"mockupId"`
	CurrentHTML string           `json:"currentHtml"`
	EditPrompt  string           `json:"editPrompt"`
	Tier        models.ModelTier `json:"aiModel"`
}

// SubmitInput describes a new generation request.
type SubmitInput struct {
	Prompt      string
	Device      models.DeviceType
	Library     models.UILibrary
	Tier        models.ModelTier
	ProjectName string
}

// SubmitResult identifies the rows created for an accepted request.
type SubmitResult struct {
	MockupID  uint64 `json:"mockupId"`
	ProjectID uint64 `json:"projectId"`
	JobID     uint64 `json:"jobId"`
}

// Service coordinates submissions and queries over the mockup tables.
type Service struct {
	db      *gorm.DB
	credits *credits.Service
	queue   *jobs.Queue
}

// NewService wires the generation service.
func NewService(db *gorm.DB, creditSvc *credits.Service, queue *jobs.Queue) *Service {
	return &Service{db: db, credits: creditSvc, queue: queue}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// mockupName derives a display name from the generation prompt.
func mockupName(prompt string) string {
	return "Mockup - " + truncate(prompt, 50) + "..."
}

// projectName applies the dated fallback when the caller named no project.
func projectName(requested string) string {
	if requested != "" {
		return requested
	}
	return "Project " + time.Now().Format("1/2/2006")
}

// Submit gates the request on credits, creates the project and pending
// mockup rows, charges the credit, and queues the generation job.
func (s *Service) Submit(user *models.User, in SubmitInput) (SubmitResult, error) {
	ok, errCan := s.credits.CanGenerate(user)
	if errCan != nil {
		return SubmitResult{}, errCan
	}
	if !ok {
		return SubmitResult{}, &ErrCreditLimit{Limit: s.credits.Limit()}
	}

	project := &models.Project{
		UserID:      user.ID,
		Name:        projectName(in.ProjectName),
		Description: truncate(in.Prompt, 200),
	}
	if errCreate := s.db.Create(project).Error; errCreate != nil {
		return SubmitResult{}, fmt.Errorf("generation: create project: %w", errCreate)
	}

	mockup := &models.Mockup{
		ProjectID:  project.ID,
		Name:       mockupName(in.Prompt),
		Prompt:     in.Prompt,
		DeviceType: in.Device,
		UILibrary:  in.Library,
		ModelTier:  in.Tier,
		Status:     models.StatusPending,
	}
	if errCreate := s.db.Create(mockup).Error; errCreate != nil {
		return SubmitResult{}, fmt.Errorf("generation: create mockup: %w", errCreate)
	}

	if errCharge := s.credits.Increment(user); errCharge != nil {
		return SubmitResult{}, errCharge
	}

	job, errEnqueue := s.queue.Enqueue(models.JobKindGenerate,
		fmt.Sprintf("mockup-%d", mockup.ID),
		GeneratePayload{
			MockupID:  mockup.ID,
			ProjectID: project.ID,
			UserID:    user.ID,
			Prompt:    in.Prompt,
			Device:    in.Device,
			Library:   in.Library,
			Tier:      in.Tier,
		})
	if errEnqueue != nil {
		return SubmitResult{}, errEnqueue
	}

	return SubmitResult{MockupID: mockup.ID, ProjectID: project.ID, JobID: job.ID}, nil
}

// SubmitEdit queues an edit of one version. The current code is loaded
// from the row so the model always edits what is actually stored.
func (s *Service) SubmitEdit(user *models.User, versionID uint64, editPrompt string, tier models.ModelTier) (uint64, error) {
	version, errFind := s.ownedVersion(user.ID, versionID)
	if errFind != nil {
		return 0, errFind
	}

	job, errEnqueue := s.queue.Enqueue(models.JobKindEdit,
		fmt.Sprintf("version-%d", version.ID),
		EditPayload{
			VersionID:   version.ID,
			MockupID:    version.MockupID,
			CurrentHTML: version.Code,
			EditPrompt:  editPrompt,
			Tier:        tier,
		})
	if errEnqueue != nil {
		return 0, errEnqueue
	}
	return job.ID, nil
}

// ownedVersion loads a version and verifies the caller owns the chain
// version -> mockup -> project -> user.
func (s *Service) ownedVersion(userID, versionID uint64) (*models.MockupVersion, error) {
	var version models.MockupVersion
	errFind := s.db.
		Joins("JOIN mockups ON mockups.id = mockup_versions.mockup_id").
		Joins("JOIN projects ON projects.id = mockups.project_id").
		Where("mockup_versions.id = ? AND projects.user_id = ?", versionID, userID).
		First(&version).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotOwner
		}
		return nil, fmt.Errorf("generation: load version %d: %w", versionID, errFind)
	}
	return &version, nil
}

// OwnedMockup loads a mockup with its versions, verifying ownership.
func (s *Service) OwnedMockup(userID, mockupID uint64) (*models.Mockup, error) {
	var mockup models.Mockup
	errFind := s.db.
		Preload("Versions", func(tx *gorm.DB) *gorm.DB { return tx.Order("version") }).
		Joins("JOIN projects ON projects.id = mockups.project_id").
		Where("mockups.id = ? AND projects.user_id = ?", mockupID, userID).
		First(&mockup).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotOwner
		}
		return nil, fmt.Errorf("generation: load mockup %d: %w", mockupID, errFind)
	}
	return &mockup, nil
}

// ListMockups returns the caller's mockups newest first, with their
// owning project preloaded.
func (s *Service) ListMockups(userID uint64) ([]models.Mockup, error) {
	var mockups []models.Mockup
	errFind := s.db.
		Preload("Project").
		Joins("JOIN projects ON projects.id = mockups.project_id").
		Where("projects.user_id = ?", userID).
		Order("mockups.created_at DESC").
		Find(&mockups).Error
	if errFind != nil {
		return nil, fmt.Errorf("generation: list mockups: %w", errFind)
	}
	return mockups, nil
}
