package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	EventStore EventStoreConfig
	App        AppConfig
	JWT        JWTConfig
	Sync       SyncConfig
	SMTP       SMTPConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// EventStoreConfig points at the externally-owned mobile-tracking datastore.
// The pipeline only ever reads from it.
type EventStoreConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// JWTConfig holds JWT configuration for the operator API
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// SyncConfig holds geofence sync loop configuration
type SyncConfig struct {
	Enabled                   bool
	IntervalMinutes           int
	BatchSize                 int
	InitialSyncDays           int
	ProcessSummariesAfterSync bool
	StartupDelaySeconds       int
	CompanyIDs                []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func Load() (*Config, error) {
	// A missing .env is fine in containerized deployments; real env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sitecrew_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// External event store configuration
	esPort, err := strconv.Atoi(getEnv("EVENTSTORE_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENTSTORE_PORT: %w", err)
	}

	config.EventStore = EventStoreConfig{
		Host:     getEnv("EVENTSTORE_HOST", "localhost"),
		Port:     esPort,
		User:     getEnv("EVENTSTORE_USER", "tracker_ro"),
		Password: getEnv("EVENTSTORE_PASSWORD", ""),
		Name:     getEnv("EVENTSTORE_NAME", "mobile_tracking"),
		SSLMode:  getEnv("EVENTSTORE_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Sync configuration
	syncInterval, err := strconv.Atoi(getEnv("SYNC_INTERVAL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL_MINUTES: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("SYNC_BATCH_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_BATCH_SIZE: %w", err)
	}
	initialSyncDays, err := strconv.Atoi(getEnv("SYNC_INITIAL_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INITIAL_DAYS: %w", err)
	}
	startupDelay, err := strconv.Atoi(getEnv("SYNC_STARTUP_DELAY_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_STARTUP_DELAY_SECONDS: %w", err)
	}

	config.Sync = SyncConfig{
		Enabled:                   getEnv("SYNC_ENABLED", "true") == "true",
		IntervalMinutes:           syncInterval,
		BatchSize:                 batchSize,
		InitialSyncDays:           initialSyncDays,
		ProcessSummariesAfterSync: getEnv("SYNC_PROCESS_SUMMARIES", "true") == "true",
		StartupDelaySeconds:       startupDelay,
		CompanyIDs:                getEnvSlice("SYNC_COMPANY_IDS"),
	}

	// SMTP configuration (email dispatch channel)
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@sitecrew.io"),
		FromName: getEnv("SMTP_FROM_NAME", "SiteCrew Attendance"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Sync.Enabled {
		if c.EventStore.Password == "" {
			return fmt.Errorf("EVENTSTORE_PASSWORD is required when sync is enabled")
		}
		if len(c.Sync.CompanyIDs) == 0 {
			return fmt.Errorf("SYNC_COMPANY_IDS is required when sync is enabled")
		}
	}
	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be positive")
	}
	if c.Sync.IntervalMinutes <= 0 {
		return fmt.Errorf("SYNC_INTERVAL_MINUTES must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// EventStoreURL returns the connection string for the external event store
func (c *Config) EventStoreURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.EventStore.User,
		c.EventStore.Password,
		c.EventStore.Host,
		c.EventStore.Port,
		c.EventStore.Name,
		c.EventStore.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
