package security

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/uisketch/uisketch/internal/config"
)

// TokenRole distinguishes user and admin tokens.
type TokenRole string

// Token roles issued by the API.
const (
	// RoleUser marks a front-surface session token.
	RoleUser TokenRole = "user"
	// RoleAdmin marks an admin-surface session token.
	RoleAdmin TokenRole = "admin"
)

// IssueToken signs a JWT for the given subject ID and role.
func IssueToken(cfg config.JWTConfig, subjectID uint64, role TokenRole) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("security: jwt secret not configured")
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(subjectID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, errSign := token.SignedString([]byte(cfg.Secret))
	if errSign != nil {
		return "", fmt.Errorf("security: sign token: %w", errSign)
	}
	return signed, nil
}

// ParseToken validates a JWT and returns the subject ID for the expected role.
func ParseToken(cfg config.JWTConfig, raw string, role TokenRole) (uint64, error) {
	if cfg.Secret == "" {
		return 0, fmt.Errorf("security: jwt secret not configured")
	}
	parsed, errParse := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	})
	if errParse != nil {
		return 0, fmt.Errorf("security: parse token: %w", errParse)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return 0, fmt.Errorf("security: invalid token")
	}
	if gotRole, _ := claims["role"].(string); gotRole != string(role) {
		return 0, fmt.Errorf("security: wrong token role")
	}
	rawSub, _ := claims["sub"].(string)
	subjectID, errParseUint := strconv.ParseUint(rawSub, 10, 64)
	if errParseUint != nil || subjectID == 0 {
		return 0, fmt.Errorf("security: invalid token subject")
	}
	return subjectID, nil
}
