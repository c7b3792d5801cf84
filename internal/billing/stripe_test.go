package billing

import (
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/uisketch/uisketch/internal/config"
	"github.com/uisketch/uisketch/internal/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.User{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	conn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{})
	return NewService(conn, config.StripeConfig{}), conn
}

func seedUser(t *testing.T, conn *gorm.DB, plan models.Plan, subscriptionID string) *models.User {
	t.Helper()
	user := &models.User{
		Email:          "billing-" + time.Now().Format("150405.000000000") + "@example.com",
		Password:       "x",
		Plan:           plan,
		CreditsResetAt: time.Now(),
		SubscriptionID: subscriptionID,
	}
	if errCreate := conn.Create(user).Error; errCreate != nil {
		t.Fatalf("seed user: %v", errCreate)
	}
	return user
}

func TestApplyCheckoutCompleted_UpgradesUser(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanFree, "")

	sess := &stripe.CheckoutSession{
		Metadata:     map[string]string{"user_id": "18446744073709551615"},
		Subscription: &stripe.Subscription{ID: "sub_123"},
	}
	// Unknown user id affects no rows but must not error.
	if errApply := svc.applyCheckoutCompleted(sess); errApply != nil {
		t.Fatalf("apply unknown user: %v", errApply)
	}

	sess.Metadata["user_id"] = strconv.FormatUint(user.ID, 10)
	if errApply := svc.applyCheckoutCompleted(sess); errApply != nil {
		t.Fatalf("apply: %v", errApply)
	}

	var reloaded models.User
	conn.First(&reloaded, "id = ?", user.ID)
	if reloaded.Plan != models.PlanPro {
		t.Fatalf("plan not upgraded: %s", reloaded.Plan)
	}
	if reloaded.SubscriptionID != "sub_123" {
		t.Fatalf("subscription not recorded: %q", reloaded.SubscriptionID)
	}
	if reloaded.SubscriptionStatus != "active" {
		t.Fatalf("status not recorded: %q", reloaded.SubscriptionStatus)
	}
}

func TestApplyCheckoutCompleted_MissingMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	if errApply := svc.applyCheckoutCompleted(&stripe.CheckoutSession{Metadata: map[string]string{}}); errApply == nil {
		t.Fatal("expected error for missing user_id")
	}
}

func TestApplySubscriptionUpdated_Downgrades(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanPro, "sub_456")

	sub := &stripe.Subscription{ID: "sub_456", Status: stripe.SubscriptionStatusUnpaid}
	if errApply := svc.applySubscriptionUpdated(sub); errApply != nil {
		t.Fatalf("apply: %v", errApply)
	}

	var reloaded models.User
	conn.First(&reloaded, "id = ?", user.ID)
	if reloaded.Plan != models.PlanFree {
		t.Fatalf("plan not downgraded: %s", reloaded.Plan)
	}
	if reloaded.SubscriptionStatus != "unpaid" {
		t.Fatalf("status not recorded: %q", reloaded.SubscriptionStatus)
	}
}

func TestApplySubscriptionUpdated_PastDueKeepsPlan(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanPro, "sub_789")

	sub := &stripe.Subscription{ID: "sub_789", Status: stripe.SubscriptionStatusPastDue}
	if errApply := svc.applySubscriptionUpdated(sub); errApply != nil {
		t.Fatalf("apply: %v", errApply)
	}

	var reloaded models.User
	conn.First(&reloaded, "id = ?", user.ID)
	if reloaded.Plan != models.PlanPro {
		t.Fatalf("past_due should not downgrade: %s", reloaded.Plan)
	}
	if reloaded.SubscriptionStatus != "past_due" {
		t.Fatalf("status not recorded: %q", reloaded.SubscriptionStatus)
	}
}

func TestApplySubscriptionDeleted_ClearsSubscription(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanPro, "sub_del")

	if errApply := svc.applySubscriptionDeleted(&stripe.Subscription{ID: "sub_del"}); errApply != nil {
		t.Fatalf("apply: %v", errApply)
	}

	var reloaded models.User
	conn.First(&reloaded, "id = ?", user.ID)
	if reloaded.Plan != models.PlanFree {
		t.Fatalf("plan not downgraded: %s", reloaded.Plan)
	}
	if reloaded.SubscriptionID != "" {
		t.Fatalf("subscription id not cleared: %q", reloaded.SubscriptionID)
	}
}

func TestSyncSubscription_NoSubscriptionIsNoop(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanFree, "")

	if errSync := svc.SyncSubscription(user); errSync != nil {
		t.Fatalf("sync without subscription: %v", errSync)
	}
	if user.Plan != models.PlanFree {
		t.Fatalf("plan changed without subscription: %s", user.Plan)
	}
}

func TestCreatePortalSession_NoCustomer(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanFree, "")

	if _, errPortal := svc.CreatePortalSession(user, "https://example.com/account"); errPortal != ErrNoCustomer {
		t.Fatalf("expected ErrNoCustomer, got %v", errPortal)
	}
}
