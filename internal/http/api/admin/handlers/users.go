package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	dbutil "github.com/uisketch/uisketch/internal/db"
	"github.com/uisketch/uisketch/internal/models"
)

// UserHandler manages user accounts from the admin surface.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List returns users with optional filters.
func (h *UserHandler) List(c *gin.Context) {
	var (
		emailQ = strings.TrimSpace(c.Query("email"))
		planQ  = strings.TrimSpace(c.Query("plan"))
		idQ    = strings.TrimSpace(c.Query("id"))
	)

	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if emailQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+emailQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "email"), pattern)
	}
	if planQ != "" {
		q = q.Where("plan = ?", planQ)
	}
	if idQ != "" {
		if id, errParse := strconv.ParseUint(idQ, 10, 64); errParse == nil {
			q = q.Where("id = ?", id)
		}
	}

	var rows []models.User
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, user := range rows {
		out = append(out, gin.H{
			"id":                  user.ID,
			"email":               user.Email,
			"name":                user.Name,
			"plan":                user.Plan,
			"credits_used":        user.CreditsUsed,
			"credits_reset_at":    user.CreditsResetAt,
			"subscription_status": user.SubscriptionStatus,
			"created_at":          user.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// updateUserRequest defines the mutable user fields.
type updateUserRequest struct {
	Plan        *string `json:"plan"`
	CreditsUsed *int    `json:"credits_used"`
}

// Update adjusts a user's plan or credit counter.
func (h *UserHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.Plan != nil {
		plan := models.Plan(strings.TrimSpace(*body.Plan))
		if plan != models.PlanFree && plan != models.PlanPro {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan"})
			return
		}
		updates["plan"] = plan
	}
	if body.CreditsUsed != nil {
		if *body.CreditsUsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credits_used"})
			return
		}
		updates["credits_used"] = *body.CreditsUsed
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load user failed"})
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&user).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"plan":         user.Plan,
		"credits_used": user.CreditsUsed,
	})
}
