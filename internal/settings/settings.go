package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/uisketch/uisketch/internal/models"
	"gorm.io/gorm"
)

// Int returns the integer setting for key, or fallback when absent or invalid.
func Int(conn *gorm.DB, key string, fallback int) int {
	raw, ok := value(conn, key)
	if !ok {
		return fallback
	}
	parsed, okParse := parseNonNegativeInt(raw)
	if !okParse {
		return fallback
	}
	return parsed
}

// Bool returns the boolean setting for key, or fallback when absent or invalid.
func Bool(conn *gorm.DB, key string, fallback bool) bool {
	raw, ok := value(conn, key)
	if !ok {
		return fallback
	}
	parsed, okParse := parseBool(raw)
	if !okParse {
		return fallback
	}
	return parsed
}

// String returns the string setting for key, or fallback when absent or empty.
func String(conn *gorm.DB, key string, fallback string) string {
	raw, ok := value(conn, key)
	if !ok {
		return fallback
	}
	parsed, okParse := parseString(raw)
	if !okParse || parsed == "" {
		return fallback
	}
	return parsed
}

func value(conn *gorm.DB, key string) (json.RawMessage, bool) {
	if conn == nil {
		return nil, false
	}
	var row models.Setting
	if errFind := conn.Where("key = ?", key).First(&row).Error; errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, false
		}
		return nil, false
	}
	trimmed := bytes.TrimSpace(row.Value)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, false
	}
	return row.Value, true
}

func parseBool(raw json.RawMessage) (bool, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false, false
	}
	var parsedBool bool
	if errUnmarshal := json.Unmarshal(raw, &parsedBool); errUnmarshal == nil {
		return parsedBool, true
	}
	var parsedString string
	if errUnmarshal := json.Unmarshal(raw, &parsedString); errUnmarshal == nil {
		switch strings.ToLower(strings.TrimSpace(parsedString)) {
		case "1", "true", "yes", "y", "on":
			return true, true
		case "0", "false", "no", "n", "off":
			return false, true
		}
	}
	return false, false
}

func parseString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	var parsedString string
	if errUnmarshal := json.Unmarshal(raw, &parsedString); errUnmarshal == nil {
		return strings.TrimSpace(parsedString), true
	}
	return "", false
}

func parseNonNegativeInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	var parsedInt int
	if errUnmarshal := json.Unmarshal(raw, &parsedInt); errUnmarshal == nil {
		return parsedInt, parsedInt >= 0
	}
	var parsedString string
	if errUnmarshal := json.Unmarshal(raw, &parsedString); errUnmarshal == nil {
		parsed, errParse := strconv.Atoi(strings.TrimSpace(parsedString))
		if errParse != nil {
			return 0, false
		}
		return parsed, parsed >= 0
	}
	var parsedFloat float64
	if errUnmarshal := json.Unmarshal(raw, &parsedFloat); errUnmarshal == nil {
		if math.IsNaN(parsedFloat) || math.IsInf(parsedFloat, 0) {
			return 0, false
		}
		if parsedFloat < 0 || parsedFloat != math.Trunc(parsedFloat) {
			return 0, false
		}
		return int(parsedFloat), true
	}
	return 0, false
}
