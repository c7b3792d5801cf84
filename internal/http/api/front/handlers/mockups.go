package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uisketch/uisketch/internal/export"
	"github.com/uisketch/uisketch/internal/generation"
	"github.com/uisketch/uisketch/internal/models"
)

// MockupHandler serves mockup creation, listing, and export.
type MockupHandler struct {
	svc *generation.Service
}

// NewMockupHandler constructs a MockupHandler.
func NewMockupHandler(svc *generation.Service) *MockupHandler {
	return &MockupHandler{svc: svc}
}

// createMockupRequest defines the request body for mockup creation.
type createMockupRequest struct {
	Prompt      string `json:"prompt"`
	DeviceType  string `json:"deviceType"`
	UILibrary   string `json:"uiLibrary"`
	AIModel     string `json:"aiModel"`
	ProjectName string `json:"projectName"`
}

// Create accepts a prompt and queues the generation pipeline.
func (h *MockupHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body createMockupRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	prompt := strings.TrimSpace(body.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing prompt"})
		return
	}
	device := models.DeviceType(body.DeviceType)
	if !models.ValidDeviceType(device) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deviceType"})
		return
	}
	library := models.UILibrary(body.UILibrary)
	if !models.ValidUILibrary(library) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uiLibrary"})
		return
	}
	tier := models.ModelTier(body.AIModel)
	if body.AIModel == "" {
		tier = models.TierMini
	}
	if !models.ValidModelTier(tier) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid aiModel"})
		return
	}

	result, errSubmit := h.svc.Submit(user, generation.SubmitInput{
		Prompt:      prompt,
		Device:      device,
		Library:     library,
		Tier:        tier,
		ProjectName: strings.TrimSpace(body.ProjectName),
	})
	if errSubmit != nil {
		var limitErr *generation.ErrCreditLimit
		if errors.As(errSubmit, &limitErr) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": limitErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create mockup failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"mockup_id":  result.MockupID,
		"project_id": result.ProjectID,
		"job_id":     result.JobID,
	})
}

// List returns the caller's mockups, newest first.
func (h *MockupHandler) List(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mockups, errList := h.svc.ListMockups(user.ID)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list mockups failed"})
		return
	}

	out := make([]gin.H, 0, len(mockups))
	for _, m := range mockups {
		out = append(out, gin.H{
			"id":          m.ID,
			"name":        m.Name,
			"prompt":      m.Prompt,
			"device_type": m.DeviceType,
			"ui_library":  m.UILibrary,
			"status":      m.Status,
			"created_at":  m.CreatedAt,
			"updated_at":  m.UpdatedAt,
			"project": gin.H{
				"id":   m.Project.ID,
				"name": m.Project.Name,
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"mockups": out})
}

// Get returns one mockup with all its versions. Clients poll this
// endpoint while the status is PENDING or GENERATING.
func (h *MockupHandler) Get(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mockupID, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	mockup, errGet := h.svc.OwnedMockup(user.ID, mockupID)
	if errGet != nil {
		if errors.Is(errGet, generation.ErrNotOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mockup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load mockup failed"})
		return
	}

	versions := make([]gin.H, 0, len(mockup.Versions))
	for _, v := range mockup.Versions {
		versions = append(versions, gin.H{
			"id":         v.ID,
			"version":    v.Version,
			"prompt":     v.Prompt,
			"code":       v.Code,
			"updated_at": v.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          mockup.ID,
		"name":        mockup.Name,
		"prompt":      mockup.Prompt,
		"code":        mockup.Code,
		"device_type": mockup.DeviceType,
		"ui_library":  mockup.UILibrary,
		"ai_model":    mockup.ModelTier,
		"status":      mockup.Status,
		"versions":    versions,
		"created_at":  mockup.CreatedAt,
		"updated_at":  mockup.UpdatedAt,
	})
}

// Export streams a version as a standalone HTML document download.
func (h *MockupHandler) Export(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mockupID, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	mockup, errGet := h.svc.OwnedMockup(user.ID, mockupID)
	if errGet != nil {
		if errors.Is(errGet, generation.ErrNotOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mockup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load mockup failed"})
		return
	}
	if mockup.Status != models.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "mockup not completed"})
		return
	}

	code := mockup.Code
	if versionQ := strings.TrimSpace(c.Query("version")); versionQ != "" {
		n, errVersion := strconv.Atoi(versionQ)
		if errVersion != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version"})
			return
		}
		found := false
		for _, v := range mockup.Versions {
			if v.Version == n {
				code = v.Code
				found = true
				break
			}
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
			return
		}
	}

	doc := export.BuildDocument(mockup.Name, code)
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(mockup.Name)+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}
