package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uisketch/uisketch/internal/credits"
	"github.com/uisketch/uisketch/internal/models"
)

// AccountHandler serves the signed-in user's profile and allowance.
type AccountHandler struct {
	credits *credits.Service
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(creditSvc *credits.Service) *AccountHandler {
	return &AccountHandler{credits: creditSvc}
}

// Me returns the current account profile.
func (h *AccountHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                  user.ID,
		"email":               user.Email,
		"name":                user.Name,
		"plan":                user.Plan,
		"subscription_status": user.SubscriptionStatus,
		"created_at":          user.CreatedAt,
	})
}

// Credits returns the current credit snapshot.
func (h *AccountHandler) Credits(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	snap, errSnap := h.credits.SnapshotFor(user)
	if errSnap != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load credits failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":      snap.Plan,
		"used":      snap.Used,
		"limit":     snap.Limit,
		"remaining": snap.Remaining,
		"resets_at": snap.ResetsAt,
	})
}

// contextUserKey is the gin context key holding the authenticated user.
const contextUserKey = "currentUser"

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(contextUserKey, user)
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
