package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/uisketch/uisketch/internal/config"
	"github.com/uisketch/uisketch/internal/models"
	"github.com/uisketch/uisketch/internal/security"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, errOpen := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	tables := []any{&models.Admin{}, &models.User{}, &models.Job{}, &models.Setting{}}
	if errMigrate := conn.AutoMigrate(tables...); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	for _, table := range tables {
		conn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table)
	}

	r := gin.New()
	RegisterAdminRoutes(r, conn, testJWT())
	return r, conn
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "admin-test-secret", Expiry: time.Hour}
}

func seedAdmin(t *testing.T, conn *gorm.DB, username, password string, active bool) models.Admin {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	admin := models.Admin{Username: username, Password: hash, Active: active}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		t.Fatalf("seed admin: %v", errCreate)
	}
	return admin
}

func adminJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var errMarshal error
		payload, errMarshal = json.Marshal(body)
		if errMarshal != nil {
			t.Fatalf("marshal body: %v", errMarshal)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := adminJSON(t, r, http.MethodPost, "/v0/admin/login", "", gin.H{
		"username": username,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: status %d body %s", w.Code, w.Body.String())
	}
	var out map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode login: %v", errDecode)
	}
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestAdminLogin(t *testing.T) {
	r, conn := newAdminRouter(t)
	seedAdmin(t, conn, "root", "hunter2hunter2", true)

	adminToken(t, r, "root", "hunter2hunter2")

	w := adminJSON(t, r, http.MethodPost, "/v0/admin/login", "", gin.H{
		"username": "root",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", w.Code)
	}
}

func TestAdminLogin_InactiveRejected(t *testing.T) {
	r, conn := newAdminRouter(t)
	seedAdmin(t, conn, "ghost", "hunter2hunter2", false)

	w := adminJSON(t, r, http.MethodPost, "/v0/admin/login", "", gin.H{
		"username": "ghost",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("inactive login: status %d", w.Code)
	}
}

func TestAdminRoutes_RejectUserTokens(t *testing.T) {
	r, _ := newAdminRouter(t)

	userToken, errToken := security.IssueToken(testJWT(), 42, security.RoleUser)
	if errToken != nil {
		t.Fatalf("issue token: %v", errToken)
	}
	w := adminJSON(t, r, http.MethodGet, "/v0/admin/users", userToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("user token on admin route: status %d", w.Code)
	}
}

func TestAdminUsers_ListAndUpdate(t *testing.T) {
	r, conn := newAdminRouter(t)
	seedAdmin(t, conn, "root", "hunter2hunter2", true)
	token := adminToken(t, r, "root", "hunter2hunter2")

	user := models.User{Email: "target@example.com", Plan: models.PlanFree, CreditsResetAt: time.Now().UTC()}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("seed user: %v", errCreate)
	}

	w := adminJSON(t, r, http.MethodGet, "/v0/admin/users?email=TARGET", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list users: status %d body %s", w.Code, w.Body.String())
	}
	var list struct {
		Users []map[string]any `json:"users"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &list); errDecode != nil {
		t.Fatalf("decode list: %v", errDecode)
	}
	if len(list.Users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(list.Users))
	}

	w = adminJSON(t, r, http.MethodPut, "/v0/admin/users/1", token, gin.H{"plan": "pro"})
	if w.Code != http.StatusOK {
		t.Fatalf("update user: status %d body %s", w.Code, w.Body.String())
	}
	var updated models.User
	if errFind := conn.First(&updated, "id = ?", user.ID).Error; errFind != nil {
		t.Fatalf("reload user: %v", errFind)
	}
	if updated.Plan != models.PlanPro {
		t.Fatalf("plan not updated: %s", updated.Plan)
	}

	w = adminJSON(t, r, http.MethodPut, "/v0/admin/users/1", token, gin.H{"plan": "enterprise"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid plan: status %d", w.Code)
	}
}

func TestAdminJobs_Retry(t *testing.T) {
	r, conn := newAdminRouter(t)
	seedAdmin(t, conn, "root", "hunter2hunter2", true)
	token := adminToken(t, r, "root", "hunter2hunter2")

	job := models.Job{
		Kind:        models.JobKindGenerate,
		DedupeKey:   "mockup-1",
		Status:      models.JobStatusFailed,
		Attempts:    3,
		MaxAttempts: 3,
		Payload:     datatypes.JSON(`{}`),
		RunAfter:    time.Now().UTC(),
	}
	if errCreate := conn.Create(&job).Error; errCreate != nil {
		t.Fatalf("seed job: %v", errCreate)
	}

	w := adminJSON(t, r, http.MethodPost, "/v0/admin/jobs/1/retry", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("retry: status %d body %s", w.Code, w.Body.String())
	}
	var reloaded models.Job
	if errFind := conn.First(&reloaded, "id = ?", job.ID).Error; errFind != nil {
		t.Fatalf("reload job: %v", errFind)
	}
	if reloaded.Status != models.JobStatusQueued || reloaded.Attempts != 0 {
		t.Fatalf("job not requeued: %+v", reloaded)
	}

	// A second retry finds no failed job.
	w = adminJSON(t, r, http.MethodPost, "/v0/admin/jobs/1/retry", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("retry queued job: status %d", w.Code)
	}
}

func TestAdminSettings_UpdateValidation(t *testing.T) {
	r, conn := newAdminRouter(t)
	seedAdmin(t, conn, "root", "hunter2hunter2", true)
	token := adminToken(t, r, "root", "hunter2hunter2")

	w := adminJSON(t, r, http.MethodPut, "/v0/admin/settings/FREE_TIER_CREDITS", token, gin.H{"value": 0})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero credits accepted: status %d", w.Code)
	}

	w = adminJSON(t, r, http.MethodPut, "/v0/admin/settings/FREE_TIER_CREDITS", token, gin.H{"value": 20})
	if w.Code != http.StatusCreated {
		t.Fatalf("create setting: status %d body %s", w.Code, w.Body.String())
	}

	w = adminJSON(t, r, http.MethodPut, "/v0/admin/settings/FREE_TIER_CREDITS", token, gin.H{"value": 25})
	if w.Code != http.StatusOK {
		t.Fatalf("update setting: status %d body %s", w.Code, w.Body.String())
	}

	w = adminJSON(t, r, http.MethodPut, "/v0/admin/settings/RATE_LIMIT", token, gin.H{"value": 0})
	if w.Code != http.StatusCreated {
		t.Fatalf("zero rate limit rejected: status %d body %s", w.Code, w.Body.String())
	}

	var setting models.Setting
	if errFind := conn.First(&setting, "key = ?", "FREE_TIER_CREDITS").Error; errFind != nil {
		t.Fatalf("reload setting: %v", errFind)
	}
	if string(setting.Value) != "25" {
		t.Fatalf("unexpected value: %s", setting.Value)
	}
}
