package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/uisketch/uisketch/internal/billing"
)

// BillingHandler serves checkout, portal, and the Stripe webhook.
type BillingHandler struct {
	svc *billing.Service
}

// NewBillingHandler constructs a BillingHandler.
func NewBillingHandler(svc *billing.Service) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// Checkout starts a pro subscription checkout session.
func (h *BillingHandler) Checkout(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	resp, errCheckout := h.svc.CreateCheckoutSession(user)
	if errCheckout != nil {
		log.WithError(errCheckout).Error("billing: checkout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": resp.SessionID, "url": resp.URL})
}

// portalRequest defines the request body for the customer portal.
type portalRequest struct {
	ReturnURL string `json:"returnUrl"`
}

// Portal opens the billing provider's customer portal.
func (h *BillingHandler) Portal(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var body portalRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	returnURL := strings.TrimSpace(body.ReturnURL)
	if returnURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing returnUrl"})
		return
	}

	url, errPortal := h.svc.CreatePortalSession(user, returnURL)
	if errPortal != nil {
		if errors.Is(errPortal, billing.ErrNoCustomer) {
			c.JSON(http.StatusConflict, gin.H{"error": "no active billing account"})
			return
		}
		log.WithError(errPortal).Error("billing: portal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "portal failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Sync refreshes the caller's plan from the billing provider. Clients
// call this after the checkout redirect instead of waiting for the
// webhook.
func (h *BillingHandler) Sync(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if errSync := h.svc.SyncSubscription(user); errSync != nil {
		log.WithError(errSync).Error("billing: sync")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":                user.Plan,
		"subscription_status": user.SubscriptionStatus,
	})
}

// Webhook receives signed events from the billing provider.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, errRead := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if errRead != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}
	signature := c.GetHeader("Stripe-Signature")
	if errHandle := h.svc.HandleWebhook(payload, signature); errHandle != nil {
		log.WithError(errHandle).Warn("billing: webhook rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook rejected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
