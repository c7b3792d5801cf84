package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by the config loader.
const (
	EnvConfigPath          = "CONFIG_PATH"
	EnvDBConnection        = "DB_CONNECTION"
	EnvJWTSecret           = "JWT_SECRET"
	EnvJWTExpiry           = "JWT_EXPIRY"
	EnvMiniAPIKey          = "SKETCH_MINI_API_KEY"
	EnvProAPIKey           = "SKETCH_PRO_API_KEY"
	EnvStripeSecretKey     = "STRIPE_SECRET_KEY"
	EnvStripeWebhookSecret = "STRIPE_WEBHOOK_SECRET"
	EnvAdminUsername       = "ADMIN_USERNAME"
	EnvAdminPassword       = "ADMIN_PASSWORD"
)

// AdminBootstrap holds the initial admin credentials, if provided.
type AdminBootstrap struct {
	Username string
	Password string
}

// LoadAdminBootstrap reads the initial admin credentials from the
// environment. Both values must be present for bootstrap to run.
func LoadAdminBootstrap() (AdminBootstrap, bool) {
	boot := AdminBootstrap{
		Username: strings.TrimSpace(os.Getenv(EnvAdminUsername)),
		Password: strings.TrimSpace(os.Getenv(EnvAdminPassword)),
	}
	return boot, boot.Username != "" && boot.Password != ""
}

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// LoadDatabaseDSN reads the database DSN from the YAML config file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// JWTConfig holds JWT secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// defaultJWTExpiry is used when the config omits or invalidates JWT expiry.
const defaultJWTExpiry = 30 * 24 * time.Hour

// LoadJWTConfig loads JWT settings from the YAML config file.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	// fileConfig maps the YAML fields needed for JWT settings.
	type fileConfig struct {
		JWT JWTConfig `yaml:"jwt"`
	}

	result := JWTConfig{Expiry: defaultJWTExpiry}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.JWT
		}
	}

	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		result.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			result.Expiry = expiry
		}
	}

	if result.Expiry <= 0 {
		result.Expiry = defaultJWTExpiry
	}
	return result, nil
}

// ModelPreset configures one AI model preset endpoint.
type ModelPreset struct {
	APIKey  string `yaml:"api-key"`
	BaseURL string `yaml:"base-url"`
	Model   string `yaml:"model"`
}

// AIConfig holds provider settings for both model presets.
type AIConfig struct {
	Mini ModelPreset `yaml:"mini"`
	Pro  ModelPreset `yaml:"pro"`
}

// Default model endpoints used when the config omits them.
const (
	defaultMiniBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultMiniModel   = "gemini-2.0-flash"
	defaultProBaseURL  = "https://openrouter.ai/api/v1"
	defaultProModel    = "xiaomi/mimo-v2-flash:free"
)

// LoadAIConfig loads AI provider settings from the YAML config file.
func LoadAIConfig(configPath string) (AIConfig, error) {
	// fileConfig maps the YAML fields needed for AI settings.
	type fileConfig struct {
		AI AIConfig `yaml:"ai"`
	}

	var result AIConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.AI
		}
	}

	if key := strings.TrimSpace(os.Getenv(EnvMiniAPIKey)); key != "" {
		result.Mini.APIKey = key
	}
	if key := strings.TrimSpace(os.Getenv(EnvProAPIKey)); key != "" {
		result.Pro.APIKey = key
	}

	if strings.TrimSpace(result.Mini.BaseURL) == "" {
		result.Mini.BaseURL = defaultMiniBaseURL
	}
	if strings.TrimSpace(result.Mini.Model) == "" {
		result.Mini.Model = defaultMiniModel
	}
	if strings.TrimSpace(result.Pro.BaseURL) == "" {
		result.Pro.BaseURL = defaultProBaseURL
	}
	if strings.TrimSpace(result.Pro.Model) == "" {
		result.Pro.Model = defaultProModel
	}
	return result, nil
}

// StripeConfig holds billing provider settings.
type StripeConfig struct {
	SecretKey     string `yaml:"secret-key"`
	WebhookSecret string `yaml:"webhook-secret"`
	ProPriceID    string `yaml:"pro-price-id"`
	SuccessURL    string `yaml:"success-url"`
	CancelURL     string `yaml:"cancel-url"`
}

// LoadStripeConfig loads billing settings from the YAML config file.
func LoadStripeConfig(configPath string) (StripeConfig, error) {
	// fileConfig maps the YAML fields needed for billing settings.
	type fileConfig struct {
		Stripe StripeConfig `yaml:"stripe"`
	}

	var result StripeConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.Stripe
		}
	}

	if key := strings.TrimSpace(os.Getenv(EnvStripeSecretKey)); key != "" {
		result.SecretKey = key
	}
	if secret := strings.TrimSpace(os.Getenv(EnvStripeWebhookSecret)); secret != "" {
		result.WebhookSecret = secret
	}
	return result, nil
}
