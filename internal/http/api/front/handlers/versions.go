package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uisketch/uisketch/internal/generation"
	"github.com/uisketch/uisketch/internal/jobs"
	"github.com/uisketch/uisketch/internal/models"
)

// VersionHandler serves per-version edit requests.
type VersionHandler struct {
	svc *generation.Service
}

// NewVersionHandler constructs a VersionHandler.
func NewVersionHandler(svc *generation.Service) *VersionHandler {
	return &VersionHandler{svc: svc}
}

// editRequest defines the request body for a version edit.
type editRequest struct {
	EditPrompt string `json:"editPrompt"`
	AIModel    string `json:"aiModel"`
}

// Edit queues a model-driven modification of one version.
func (h *VersionHandler) Edit(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	versionID, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body editRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	editPrompt := strings.TrimSpace(body.EditPrompt)
	if editPrompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing editPrompt"})
		return
	}
	tier := models.ModelTier(body.AIModel)
	if body.AIModel == "" {
		tier = models.TierPro
	}
	if !models.ValidModelTier(tier) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid aiModel"})
		return
	}

	jobID, errSubmit := h.svc.SubmitEdit(user, versionID, editPrompt, tier)
	if errSubmit != nil {
		if errors.Is(errSubmit, generation.ErrNotOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
			return
		}
		if errors.Is(errSubmit, jobs.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "edit already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "edit failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}
