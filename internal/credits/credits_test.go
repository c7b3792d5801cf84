package credits

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

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
	if errMigrate := conn.AutoMigrate(&models.User{}, &models.Setting{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	conn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{})
	return NewService(conn), conn
}

func seedUser(t *testing.T, conn *gorm.DB, plan models.Plan, used int, resetAt time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Email:          string(plan) + "-" + time.Now().Format("150405.000000") + "@example.com",
		Password:       "x",
		Plan:           plan,
		CreditsUsed:    used,
		CreditsResetAt: resetAt,
	}
	if errCreate := conn.Create(user).Error; errCreate != nil {
		t.Fatalf("seed user: %v", errCreate)
	}
	return user
}

func TestSnapshot_FreeWithinCycle(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanFree, 2, time.Now())

	snap, errSnap := svc.SnapshotFor(user)
	if errSnap != nil {
		t.Fatalf("snapshot: %v", errSnap)
	}
	if snap.Used != 2 || snap.Limit != 5 || snap.Remaining != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSnapshot_ProUnlimited(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanPro, 99, time.Now())

	snap, errSnap := svc.SnapshotFor(user)
	if errSnap != nil {
		t.Fatalf("snapshot: %v", errSnap)
	}
	if snap.Remaining != -1 || snap.Limit != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	ok, errCan := svc.CanGenerate(user)
	if errCan != nil || !ok {
		t.Fatalf("pro should always generate: ok=%v err=%v", ok, errCan)
	}
}

func TestCanGenerate_FreeAtCap(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanFree, 5, time.Now())

	ok, errCan := svc.CanGenerate(user)
	if errCan != nil {
		t.Fatalf("can generate: %v", errCan)
	}
	if ok {
		t.Fatal("expected cap to block generation")
	}
}

func TestRefresh_LapsedCycleResets(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanFree, 5, time.Now().Add(-31*24*time.Hour))

	ok, errCan := svc.CanGenerate(user)
	if errCan != nil {
		t.Fatalf("can generate: %v", errCan)
	}
	if !ok {
		t.Fatal("expected lapsed cycle to unblock generation")
	}

	var reloaded models.User
	if errFind := conn.First(&reloaded, "id = ?", user.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if reloaded.CreditsUsed != 0 {
		t.Fatalf("reset not persisted: used=%d", reloaded.CreditsUsed)
	}
}

func TestIncrement(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanFree, 0, time.Now())

	if errInc := svc.Increment(user); errInc != nil {
		t.Fatalf("increment: %v", errInc)
	}
	if user.CreditsUsed != 1 {
		t.Fatalf("in-memory counter not advanced: %d", user.CreditsUsed)
	}
	var reloaded models.User
	conn.First(&reloaded, "id = ?", user.ID)
	if reloaded.CreditsUsed != 1 {
		t.Fatalf("persisted counter not advanced: %d", reloaded.CreditsUsed)
	}
}

func TestIncrement_ProNotMetered(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, models.PlanPro, 0, time.Now())

	if errInc := svc.Increment(user); errInc != nil {
		t.Fatalf("increment: %v", errInc)
	}
	var reloaded models.User
	conn.First(&reloaded, "id = ?", user.ID)
	if reloaded.CreditsUsed != 0 {
		t.Fatalf("pro user metered: %d", reloaded.CreditsUsed)
	}
}

func TestSweepLapsedCycles(t *testing.T) {
	svc, conn := newTestService(t)
	stale := seedUser(t, conn, models.PlanFree, 4, time.Now().Add(-40*24*time.Hour))
	fresh := seedUser(t, conn, models.PlanFree, 3, time.Now())

	n, errSweep := svc.SweepLapsedCycles()
	if errSweep != nil {
		t.Fatalf("sweep: %v", errSweep)
	}
	if n != 1 {
		t.Fatalf("expected 1 reset, got %d", n)
	}

	var reloaded models.User
	conn.First(&reloaded, "id = ?", stale.ID)
	if reloaded.CreditsUsed != 0 {
		t.Fatalf("stale user not reset: %d", reloaded.CreditsUsed)
	}
	conn.First(&reloaded, "id = ?", fresh.ID)
	if reloaded.CreditsUsed != 3 {
		t.Fatalf("fresh user touched: %d", reloaded.CreditsUsed)
	}
}

func TestCustomLimitFromSettings(t *testing.T) {
	svc, conn := newTestService(t)
	if errSave := conn.Create(&models.Setting{Key: "FREE_TIER_CREDITS", Value: []byte("10")}).Error; errSave != nil {
		t.Fatalf("seed setting: %v", errSave)
	}
	defer conn.Delete(&models.Setting{Key: "FREE_TIER_CREDITS"})

	if got := svc.Limit(); got != 10 {
		t.Fatalf("limit override ignored: %d", got)
	}
}
