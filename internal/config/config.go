package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	SendGrid    SendGridConfig    `yaml:"sendgrid"`
	JWT         JWTConfig         `yaml:"jwt"`
	GCloud      GCloudConfig      `yaml:"gcloud"`
	Workers     WorkersConfig     `yaml:"workers"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
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

// SendGridConfig contains outbound email settings
type SendGridConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// JWTConfig contains token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// GCloudConfig identifies the Cloud SQL instance used for backup/restore.
// ClientType "mock" swaps in the in-memory backup client for local work.
type GCloudConfig struct {
	ProjectID     string `yaml:"project_id"`
	SQLInstanceID string `yaml:"sql_instance_id"`
	ClientType    string `yaml:"client_type"` // "cloudsql" or "mock"
}

// WorkersConfig holds the fixed sleep interval of each in-process background
// loop run by the server binary.
type WorkersConfig struct {
	InstallmentStatusInterval string `yaml:"installment_status_interval"`
	LateInterestInterval      string `yaml:"late_interest_interval"`
	LoanStatusInterval        string `yaml:"loan_status_interval"`
}

// SchedulerConfig holds the cron expressions used by the cronjob binary.
type SchedulerConfig struct {
	PromoteOverdueInstallments string `yaml:"promote_overdue_installments"`
	RecalculateLateInterest    string `yaml:"recalculate_late_interest"`
	PromoteOverdueLoans        string `yaml:"promote_overdue_loans"`
	SendOverdueNotices         string `yaml:"send_overdue_notices"`
}

// MaintenanceConfig tunes the maintenance gate.
type MaintenanceConfig struct {
	PollInterval string `yaml:"poll_interval"`
	// StayGatedOnOperationError keeps the gate up after a backup or restore
	// operation finishes with an error, until an operator clears it. The
	// default (false) lifts the gate and records the error message.
	StayGatedOnOperationError bool   `yaml:"stay_gated_on_operation_error"`
	DefaultMessage            string `yaml:"default_message"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
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

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
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

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM"); val != "" {
		c.SendGrid.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Google Cloud
	if val := os.Getenv("GCLOUD_PROJECT_ID"); val != "" {
		c.GCloud.ProjectID = val
	}
	if val := os.Getenv("GCLOUD_SQL_INSTANCE_ID"); val != "" {
		c.GCloud.SQLInstanceID = val
	}
	if val := os.Getenv("GCLOUD_CLIENT_TYPE"); val != "" {
		c.GCloud.ClientType = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7
	}
	if c.Workers.InstallmentStatusInterval == "" {
		c.Workers.InstallmentStatusInterval = "24h"
	}
	if c.Workers.LateInterestInterval == "" {
		c.Workers.LateInterestInterval = "24h"
	}
	if c.Workers.LoanStatusInterval == "" {
		c.Workers.LoanStatusInterval = "24h"
	}
	if c.Maintenance.PollInterval == "" {
		c.Maintenance.PollInterval = "30s"
	}
	if c.Maintenance.DefaultMessage == "" {
		c.Maintenance.DefaultMessage = "We are performing a database maintenance operation. We will be back in a few minutes."
	}
	if c.GCloud.ClientType == "" {
		c.GCloud.ClientType = "mock"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Scheduler.PromoteOverdueInstallments == "" {
		c.Scheduler.PromoteOverdueInstallments = "0 0 0 * * *"
	}
	if c.Scheduler.RecalculateLateInterest == "" {
		c.Scheduler.RecalculateLateInterest = "0 30 0 * * *"
	}
	if c.Scheduler.PromoteOverdueLoans == "" {
		c.Scheduler.PromoteOverdueLoans = "0 15 0 * * *"
	}
	if c.Scheduler.SendOverdueNotices == "" {
		c.Scheduler.SendOverdueNotices = "0 0 9 * * *"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	if c.GCloud.ClientType != "mock" && c.GCloud.ClientType != "cloudsql" {
		return fmt.Errorf("gcloud client_type must be \"cloudsql\" or \"mock\", got %q", c.GCloud.ClientType)
	}
	if c.GCloud.ClientType == "cloudsql" {
		if c.GCloud.ProjectID == "" {
			return fmt.Errorf("gcloud project_id is required for the cloudsql client")
		}
		if c.GCloud.SQLInstanceID == "" {
			return fmt.Errorf("gcloud sql_instance_id is required for the cloudsql client")
		}
	}

	for name, value := range map[string]string{
		"server read_timeout":                 c.Server.ReadTimeout,
		"server write_timeout":                c.Server.WriteTimeout,
		"workers installment_status_interval": c.Workers.InstallmentStatusInterval,
		"workers late_interest_interval":      c.Workers.LateInterestInterval,
		"workers loan_status_interval":        c.Workers.LoanStatusInterval,
		"maintenance poll_interval":           c.Maintenance.PollInterval,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", name, err)
		}
	}
	if d, _ := time.ParseDuration(c.Maintenance.PollInterval); d < time.Second {
		return fmt.Errorf("maintenance poll_interval must be at least 1s, got %s", c.Maintenance.PollInterval)
	}

	return nil
}

// Duration getters. Values are validated at load time, so parse errors are
// ignored here.

func (c *Config) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

func (c *Config) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

func (c *Config) GetInstallmentStatusInterval() time.Duration {
	d, _ := time.ParseDuration(c.Workers.InstallmentStatusInterval)
	return d
}

func (c *Config) GetLateInterestInterval() time.Duration {
	d, _ := time.ParseDuration(c.Workers.LateInterestInterval)
	return d
}

func (c *Config) GetLoanStatusInterval() time.Duration {
	d, _ := time.ParseDuration(c.Workers.LoanStatusInterval)
	return d
}

func (c *Config) GetMaintenancePollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Maintenance.PollInterval)
	return d
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

// GetServerAddress returns the host:port the HTTP server listens on.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
