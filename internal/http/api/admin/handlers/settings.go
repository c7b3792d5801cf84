package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/models"
	internalsettings "github.com/uisketch/uisketch/internal/settings"
)

// SettingHandler manages admin CRUD for settings values.
type SettingHandler struct {
	db *gorm.DB // Database handle for settings.
}

// NewSettingHandler constructs a settings handler.
func NewSettingHandler(db *gorm.DB) *SettingHandler {
	return &SettingHandler{db: db}
}

var positiveIntSettingKeys = map[string]struct{}{
	internalsettings.FreeTierCreditsKey:          {},
	internalsettings.CreditsResetIntervalDaysKey: {},
	internalsettings.JobMaxConcurrencyKey:        {},
	internalsettings.JobPollIntervalSecondsKey:   {},
}

var nonNegativeIntSettingKeys = map[string]struct{}{
	internalsettings.RateLimitKey:        {},
	internalsettings.RateLimitRedisDBKey: {},
}

var (
	errPositiveIntegerValue    = errors.New("value must be a positive integer")
	errNonNegativeIntegerValue = errors.New("value must be a non-negative integer")
)

func validateSettingValue(key string, raw json.RawMessage) error {
	if _, ok := positiveIntSettingKeys[key]; ok {
		var parsed int
		if errUnmarshal := json.Unmarshal(raw, &parsed); errUnmarshal != nil || parsed <= 0 {
			return errPositiveIntegerValue
		}
	}
	if _, ok := nonNegativeIntSettingKeys[key]; ok {
		var parsed int
		if errUnmarshal := json.Unmarshal(raw, &parsed); errUnmarshal != nil || parsed < 0 {
			return errNonNegativeIntegerValue
		}
	}
	return nil
}

// List returns all settings sorted by key.
func (h *SettingHandler) List(c *gin.Context) {
	var rows []models.Setting
	if errFind := h.db.WithContext(c.Request.Context()).Order("key ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list settings failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"key":        row.Key,
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// updateSettingRequest captures the payload for updating a setting.
type updateSettingRequest struct {
	Value json.RawMessage `json:"value"` // JSON value payload.
}

// Update validates and upserts a setting value.
func (h *SettingHandler) Update(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	var body updateSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Value) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}
	if errValidate := validateSettingValue(key, body.Value); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	var existing models.Setting
	errFind := h.db.WithContext(c.Request.Context()).Where("key = ?", key).First(&existing).Error
	if errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load setting failed"})
			return
		}
		setting := models.Setting{Key: key, Value: body.Value, UpdatedAt: time.Now().UTC()}
		if errCreate := h.db.WithContext(c.Request.Context()).Create(&setting).Error; errCreate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create setting failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"key": setting.Key, "value": setting.Value})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&existing).Updates(map[string]any{
		"value":      json.RawMessage(body.Value),
		"updated_at": time.Now().UTC(),
	}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update setting failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": existing.Key, "value": json.RawMessage(body.Value)})
}
