package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Email      EmailConfig      `yaml:"email"`
	JWT        JWTConfig        `yaml:"jwt"`
	Log        LogConfig        `yaml:"log"`
	Booking    BookingConfig    `yaml:"booking"`
	Penalty    PenaltyConfig    `yaml:"penalty"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Storage    StorageConfig    `yaml:"storage"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
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

// EmailConfig selects and configures the outbound mail provider.
type EmailConfig struct {
	Provider string `yaml:"provider"` // "smtp" or "sendgrid"
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`

	SendGridAPIKey string `yaml:"sendgrid_api_key"`
}

type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig holds lifecycle policy knobs.
type BookingConfig struct {
	// RequireVendorApproval routes new bookings through
	// PENDING_VENDOR_CONFIRMATION instead of confirming immediately.
	RequireVendorApproval bool `yaml:"require_vendor_approval"`
	// PayBeforeConfirmation makes new bookings start in PENDING_PAYMENT and
	// advance only on a captured payment event.
	PayBeforeConfirmation bool `yaml:"pay_before_confirmation"`
	// Staleness windows for the expiry sweep.
	PaymentTimeoutMinutes  int `yaml:"payment_timeout_minutes"`
	ApprovalTimeoutMinutes int `yaml:"approval_timeout_minutes"`
}

// PenaltyConfig supplies fallbacks for units without their own fee settings.
type PenaltyConfig struct {
	DefaultLateFeePerHourCents int64 `yaml:"default_late_fee_per_hour_cents"`
	DefaultGracePeriodMinutes  int64 `yaml:"default_grace_period_minutes"`
}

// ComplianceConfig holds fraud-score thresholds and per-signal weights.
type ComplianceConfig struct {
	BlockThreshold        int32 `yaml:"block_threshold"`
	VerificationThreshold int32 `yaml:"verification_threshold"`
	LateReturnWeight      int32 `yaml:"late_return_weight"`
	DamageWeight          int32 `yaml:"damage_weight"`
	DisputeRejectedWeight int32 `yaml:"dispute_rejected_weight"`
}

// StorageConfig configures damage-evidence file storage.
type StorageConfig struct {
	BaseURL   string `yaml:"base_url"`
	UploadDir string `yaml:"upload_dir"`
}

// SchedulerConfig holds cron expressions (with seconds) for the sweeps.
type SchedulerConfig struct {
	ProcessLateBookings string `yaml:"process_late_bookings"`
	ExpireStaleBookings string `yaml:"expire_stale_bookings"`
}

// Load reads configuration from a YAML file. A .env file, if present, is
// loaded first so environment overrides work in local development too.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Database.Port = p
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Email.SMTPHost = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Email.SMTPPort = p
		}
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Email.SMTPUser = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Email.SMTPPassword = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Server.Port = p
		}
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.Booking.PaymentTimeoutMinutes == 0 {
		c.Booking.PaymentTimeoutMinutes = 30
	}
	if c.Booking.ApprovalTimeoutMinutes == 0 {
		c.Booking.ApprovalTimeoutMinutes = 24 * 60
	}
	if c.Compliance.BlockThreshold == 0 {
		c.Compliance.BlockThreshold = 100
	}
	if c.Compliance.VerificationThreshold == 0 {
		c.Compliance.VerificationThreshold = 80
	}
	if c.Compliance.LateReturnWeight == 0 {
		c.Compliance.LateReturnWeight = 10
	}
	if c.Compliance.DamageWeight == 0 {
		c.Compliance.DamageWeight = 15
	}
	if c.Compliance.DisputeRejectedWeight == 0 {
		c.Compliance.DisputeRejectedWeight = 5
	}
	if c.Penalty.DefaultGracePeriodMinutes == 0 {
		c.Penalty.DefaultGracePeriodMinutes = 60
	}
	if c.Scheduler.ProcessLateBookings == "" {
		c.Scheduler.ProcessLateBookings = "0 0 2 * * *" // nightly 02:00 UTC
	}
	if c.Scheduler.ExpireStaleBookings == "" {
		c.Scheduler.ExpireStaleBookings = "0 */10 * * * *" // every 10 minutes
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "smtp"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = fmt.Sprintf("http://%s", c.GetServerAddress())
	}
}

// Validate checks that required configuration values are present
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if c.Email.Provider != "smtp" && c.Email.Provider != "sendgrid" {
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}
	if c.Compliance.VerificationThreshold > c.Compliance.BlockThreshold {
		return fmt.Errorf("verification threshold must not exceed block threshold")
	}
	return nil
}

// GetServerAddress returns the host:port the HTTP server listens on.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString builds the lib/pq connection string.
func (c *Config) GetDatabaseConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Database, sslMode)
}
