package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	Environment      string // "production" runs headless; anything else opens a visible browser with remote debugging
	LogLevel         string
	DatabaseURL      string
	IDXUsername      string
	IDXPassword      string
	IDXLoginURL      string
	InputDir         string
	FileNameOverride string // when set, file discovery matches *<override>*.csv instead of today's date
	TelegramToken    string // optional; alerts are skipped when empty
	AlertChatID      int64
	CronSpec         string
	LogRetentionDays int
}

const defaultLoginURL = "https://nsli-prod.rcm.athenahealth.com/rcm/#cfSystem=NSLI"

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.IDXUsername = os.Getenv("IDX_USERNAME")
	cfg.IDXPassword = os.Getenv("IDX_PASSWORD")

	cfg.IDXLoginURL = os.Getenv("IDX_LOGIN_URL")
	if cfg.IDXLoginURL == "" {
		cfg.IDXLoginURL = defaultLoginURL
	}

	cfg.InputDir = os.Getenv("INPUT_DIR")
	if cfg.InputDir == "" {
		return nil, fmt.Errorf("INPUT_DIR is not set")
	}

	cfg.FileNameOverride = strings.TrimSpace(os.Getenv("FILE_NAME_OVERRIDE"))

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatIDStr := os.Getenv("ALERT_CHAT_ID"); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ALERT_CHAT_ID: %w", err)
		}
		cfg.AlertChatID = chatID
	}

	cfg.CronSpec = os.Getenv("CRON_SPEC")
	if cfg.CronSpec == "" {
		cfg.CronSpec = "0 6 * * 1-5" // weekdays at 06:00
	}

	cfg.LogRetentionDays = 7
	if daysStr := os.Getenv("LOG_RETENTION_DAYS"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_RETENTION_DAYS: %w", err)
		}
		cfg.LogRetentionDays = days
	}

	return cfg, nil
}

// Production reports whether the bot runs in unattended production mode.
func (c *AppConfig) Production() bool {
	return c.Environment == "production"
}

// RequireCredentials validates that IDX login credentials are present.
// Missing credentials are a fatal startup condition.
func (c *AppConfig) RequireCredentials() error {
	if c.IDXUsername == "" || c.IDXPassword == "" {
		return fmt.Errorf("IDX_USERNAME or IDX_PASSWORD is not set")
	}
	return nil
}
