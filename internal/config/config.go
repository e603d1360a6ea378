package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store types
const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
)

// Email providers
const (
	EmailNone     = "none"
	EmailSMTP     = "smtp"
	EmailSendGrid = "sendgrid"
)

// Config represents the application configuration
type Config struct {
	Backend     BackendConfig     `yaml:"backend"`
	Database    DatabaseConfig    `yaml:"database"`
	Store       StoreConfig       `yaml:"store"`
	Log         LogConfig         `yaml:"log"`
	Email       EmailConfig       `yaml:"email"`
	Push        PushConfig        `yaml:"push"`
	Booking     BookingConfig     `yaml:"booking"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	MockBackend MockBackendConfig `yaml:"mock_backend"`
}

// BackendConfig points at the hosted backend-as-a-service
type BackendConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
	// ServiceKey is used by trusted processes (the cron runner) in place of
	// the anonymous key.
	ServiceKey string `yaml:"service_key"`
	JWTSecret  string `yaml:"jwt_secret"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// StoreConfig selects where the jobs read rentals from
type StoreConfig struct {
	Type string `yaml:"type"` // "rest" or "postgres"
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

type EmailConfig struct {
	Provider       string     `yaml:"provider"` // "none", "smtp" or "sendgrid"
	FromEmail      string     `yaml:"from_email"`
	FromName       string     `yaml:"from_name"`
	SendGridAPIKey string     `yaml:"sendgrid_api_key"`
	SMTP           SMTPConfig `yaml:"smtp"`
}

// SMTPConfig contains SMTP relay settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type PushConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
}

type BookingConfig struct {
	// RejectOverlaps turns on the overlapping-booking check.
	RejectOverlaps bool `yaml:"reject_overlaps"`
}

// SchedulerConfig contains cron schedule settings (with seconds)
type SchedulerConfig struct {
	PendingRequestReminders   string `yaml:"pending_request_reminders"`
	UpcomingRentalReminders   string `yaml:"upcoming_rental_reminders"`
	PendingReminderWindowDays int    `yaml:"pending_reminder_window_days"`
}

type MockBackendConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	AutoConfirm     bool   `yaml:"auto_confirm"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	SeedSamples     bool   `yaml:"seed_samples"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func envInt(name string, dst *int) {
	if val := os.Getenv(name); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Backend
	envString("SUPABASE_URL", &c.Backend.URL)
	envString("SUPABASE_ANON_KEY", &c.Backend.AnonKey)
	envString("SUPABASE_SERVICE_KEY", &c.Backend.ServiceKey)
	envString("SUPABASE_JWT_SECRET", &c.Backend.JWTSecret)

	// Database
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	envString("STORE_TYPE", &c.Store.Type)

	// Email
	envString("EMAIL_PROVIDER", &c.Email.Provider)
	envString("EMAIL_FROM", &c.Email.FromEmail)
	envString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)
	envString("SMTP_HOST", &c.Email.SMTP.Host)
	envInt("SMTP_PORT", &c.Email.SMTP.Port)
	envString("SMTP_USER", &c.Email.SMTP.User)
	envString("SMTP_PASSWORD", &c.Email.SMTP.Password)

	// Push
	envString("FCM_CREDENTIALS_FILE", &c.Push.CredentialsFile)
	envBool("PUSH_ENABLED", &c.Push.Enabled)

	envBool("BOOKING_REJECT_OVERLAPS", &c.Booking.RejectOverlaps)

	// Mock backend
	envInt("MOCK_BACKEND_PORT", &c.MockBackend.Port)
	envBool("MOCK_BACKEND_AUTO_CONFIRM", &c.MockBackend.AutoConfirm)

	// Log
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	c.Store.Type = strings.ToLower(c.Store.Type)
	if c.Store.Type == "" {
		c.Store.Type = StoreREST
	}

	switch c.Store.Type {
	case StoreREST:
		if c.Backend.URL == "" {
			return fmt.Errorf("backend URL is required")
		}
		if c.Backend.AnonKey == "" && c.Backend.ServiceKey == "" {
			return fmt.Errorf("backend anon key or service key is required")
		}
	case StorePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unknown store type: %q", c.Store.Type)
	}

	// Email validation
	c.Email.Provider = strings.ToLower(c.Email.Provider)
	switch c.Email.Provider {
	case "", EmailNone:
		c.Email.Provider = EmailNone
	case EmailSMTP:
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.SMTP.Port <= 0 || c.Email.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.SMTP.Port)
		}
	case EmailSendGrid:
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
	default:
		return fmt.Errorf("unknown email provider: %q", c.Email.Provider)
	}
	if c.Email.Provider != EmailNone && c.Email.FromEmail == "" {
		return fmt.Errorf("email sender address is required")
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Encore"
	}

	if c.Push.Enabled && c.Push.CredentialsFile == "" {
		return fmt.Errorf("push credentials file is required when push is enabled")
	}

	// Scheduler defaults
	if c.Scheduler.PendingRequestReminders == "" {
		c.Scheduler.PendingRequestReminders = "0 0 9 * * *" // Daily at 9 AM UTC
	}
	if c.Scheduler.UpcomingRentalReminders == "" {
		c.Scheduler.UpcomingRentalReminders = "0 0 17 * * *" // Daily at 5 PM UTC
	}
	if c.Scheduler.PendingReminderWindowDays <= 0 {
		c.Scheduler.PendingReminderWindowDays = 3
	}

	// Mock backend defaults
	if c.MockBackend.Port == 0 {
		c.MockBackend.Port = 54321
	}
	if c.MockBackend.TokenTTLMinutes <= 0 {
		c.MockBackend.TokenTTLMinutes = 60
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// TrustedAPIKey returns the key the cron runner sends to the backend.
func (c *Config) TrustedAPIKey() string {
	if c.Backend.ServiceKey != "" {
		return c.Backend.ServiceKey
	}
	return c.Backend.AnonKey
}

// GetMockBackendAddress returns the listen address of the local backend
func (c *Config) GetMockBackendAddress() string {
	return fmt.Sprintf("%s:%d", c.MockBackend.Host, c.MockBackend.Port)
}
