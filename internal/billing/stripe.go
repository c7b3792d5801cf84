// Package billing integrates the Stripe subscription flow: checkout
// for the pro plan, the customer portal, and the webhook that keeps
// user plan state in sync with Stripe.
package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	billingportalsession "github.com/stripe/stripe-go/v76/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/config"
	"github.com/uisketch/uisketch/internal/models"
)

// ErrNoCustomer is returned when a portal session is requested for a
// user who never went through checkout.
var ErrNoCustomer = errors.New("billing: user has no billing customer")

// CheckoutResponse carries the hosted checkout session back to the client.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Service handles subscription billing against Stripe.
type Service struct {
	db  *gorm.DB
	cfg config.StripeConfig
}

// NewService sets the Stripe API key and wires the billing service.
func NewService(db *gorm.DB, cfg config.StripeConfig) *Service {
	stripe.Key = cfg.SecretKey
	return &Service{db: db, cfg: cfg}
}

// CreateCheckoutSession starts a pro subscription checkout for the
// user, creating the Stripe customer on first use.
func (s *Service) CreateCheckoutSession(user *models.User) (*CheckoutResponse, error) {
	customerID := user.StripeCustomerID
	if customerID == "" {
		cust, errCreate := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Name),
			Metadata: map[string]string{
				"user_id": strconv.FormatUint(user.ID, 10),
			},
		})
		if errCreate != nil {
			return nil, fmt.Errorf("billing: create customer: %w", errCreate)
		}
		customerID = cust.ID
		errSave := s.db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("stripe_customer_id", customerID).Error
		if errSave != nil {
			return nil, fmt.Errorf("billing: save customer id: %w", errSave)
		}
		user.StripeCustomerID = customerID
	}

	sess, errCreate := checkoutsession.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.ProPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		Metadata: map[string]string{
			"user_id": strconv.FormatUint(user.ID, 10),
		},
	})
	if errCreate != nil {
		return nil, fmt.Errorf("billing: create checkout session: %w", errCreate)
	}
	return &CheckoutResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// CreatePortalSession opens the Stripe customer portal for plan
// management and cancellation.
func (s *Service) CreatePortalSession(user *models.User, returnURL string) (string, error) {
	if user.StripeCustomerID == "" {
		return "", ErrNoCustomer
	}
	sess, errCreate := billingportalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(user.StripeCustomerID),
		ReturnURL: stripe.String(returnURL),
	})
	if errCreate != nil {
		return "", fmt.Errorf("billing: create portal session: %w", errCreate)
	}
	return sess.URL, nil
}

// SyncSubscription re-reads the user's subscription from Stripe and
// applies it, covering the window between the checkout redirect and
// the webhook delivery. The refreshed plan is written back onto user.
func (s *Service) SyncSubscription(user *models.User) error {
	if user.SubscriptionID == "" {
		return nil
	}
	sub, errGet := subscription.Get(user.SubscriptionID, nil)
	if errGet != nil {
		return fmt.Errorf("billing: fetch subscription %s: %w", user.SubscriptionID, errGet)
	}
	if errApply := s.applySubscriptionUpdated(sub); errApply != nil {
		return errApply
	}

	var fresh models.User
	if errFind := s.db.First(&fresh, "id = ?", user.ID).Error; errFind != nil {
		return fmt.Errorf("billing: reload user %d: %w", user.ID, errFind)
	}
	user.Plan = fresh.Plan
	user.SubscriptionStatus = fresh.SubscriptionStatus
	return nil
}

// HandleWebhook verifies and applies one Stripe webhook delivery.
func (s *Service) HandleWebhook(payload []byte, signature string) error {
	event, errVerify := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if errVerify != nil {
		return fmt.Errorf("billing: verify webhook signature: %w", errVerify)
	}
	return s.applyEvent(event)
}

func (s *Service) applyEvent(event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if errDecode := json.Unmarshal(event.Data.Raw, &sess); errDecode != nil {
			return fmt.Errorf("billing: decode checkout session: %w", errDecode)
		}
		return s.applyCheckoutCompleted(&sess)
	case "customer.subscription.updated":
		var sub stripe.Subscription
		if errDecode := json.Unmarshal(event.Data.Raw, &sub); errDecode != nil {
			return fmt.Errorf("billing: decode subscription: %w", errDecode)
		}
		return s.applySubscriptionUpdated(&sub)
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if errDecode := json.Unmarshal(event.Data.Raw, &sub); errDecode != nil {
			return fmt.Errorf("billing: decode subscription: %w", errDecode)
		}
		return s.applySubscriptionDeleted(&sub)
	default:
		log.Debugf("billing: ignoring webhook event %s", event.Type)
		return nil
	}
}

// applyCheckoutCompleted upgrades the purchasing user to the pro plan.
func (s *Service) applyCheckoutCompleted(sess *stripe.CheckoutSession) error {
	userID, errParse := strconv.ParseUint(sess.Metadata["user_id"], 10, 64)
	if errParse != nil {
		return fmt.Errorf("billing: checkout session missing user_id metadata: %w", errParse)
	}

	subscriptionID := ""
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}
	errSave := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"plan":                models.PlanPro,
		"subscription_id":     subscriptionID,
		"subscription_status": string(stripe.SubscriptionStatusActive),
	}).Error
	if errSave != nil {
		return fmt.Errorf("billing: upgrade user %d: %w", userID, errSave)
	}
	log.WithField("user", userID).Info("billing: checkout completed, user upgraded")
	return nil
}

// applySubscriptionUpdated records the provider status and downgrades
// when the subscription is no longer in good standing.
func (s *Service) applySubscriptionUpdated(sub *stripe.Subscription) error {
	updates := map[string]any{
		"subscription_status": string(sub.Status),
	}
	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		updates["plan"] = models.PlanPro
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid,
		stripe.SubscriptionStatusIncompleteExpired:
		updates["plan"] = models.PlanFree
	}

	res := s.db.Model(&models.User{}).Where("subscription_id = ?", sub.ID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("billing: sync subscription %s: %w", sub.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Warnf("billing: subscription %s not attached to any user", sub.ID)
	}
	return nil
}

// applySubscriptionDeleted drops the user back to the free plan.
func (s *Service) applySubscriptionDeleted(sub *stripe.Subscription) error {
	res := s.db.Model(&models.User{}).Where("subscription_id = ?", sub.ID).Updates(map[string]any{
		"plan":                models.PlanFree,
		"subscription_status": string(stripe.SubscriptionStatusCanceled),
		"subscription_id":     "",
	})
	if res.Error != nil {
		return fmt.Errorf("billing: cancel subscription %s: %w", sub.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Warnf("billing: deleted subscription %s not attached to any user", sub.ID)
	}
	return nil
}
