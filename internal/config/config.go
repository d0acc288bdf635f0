// Package config provides configuration management for the outage checker.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must work on minimal hosts

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingAreaCode    = errors.New("hep.area_code (HEP_CITY) is required")
	ErrMissingOfficeCode  = errors.New("hep.office_code (HEP_OFFICE) is required")
	ErrMissingEmail       = errors.New("email.to, email.from, email.username and email.password are required unless dry_run is set")
	ErrInvalidWindowDays  = errors.New("check.window_days must be between 0 and 31")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidTimezone    = errors.New("check.timezone is not a known IANA zone")
	ErrInvalidConfigValue = errors.New("invalid configuration value")
)

// Defaults.
const (
	DefaultBaseURL         = "https://www.hep.hr/ods/bez-struje/19"
	DefaultWindowDays      = 7
	DefaultSMTPServer      = "smtp.gmail.com"
	DefaultSMTPPort        = 587
	DefaultTimeoutSec      = 30
	DefaultBufferSizeKb    = 1024
	DefaultDelayMs         = 500
	DefaultBreakerFailures = 3
	DefaultConfigPath      = "configs/checker.yaml"
	maxWindowDays          = 31
)

// Config represents the complete checker configuration.
type Config struct {
	HEP     HEPConfig     `yaml:"hep"`
	Check   CheckConfig   `yaml:"check"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Email   EmailConfig   `yaml:"email"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// HEPConfig selects the distribution area and local office to query.
type HEPConfig struct {
	BaseURL    string `yaml:"base_url" validate:"required,url"`
	AreaCode   string `yaml:"area_code"`
	OfficeCode string `yaml:"office_code"`
}

// CheckConfig controls the look-ahead window and result handling.
type CheckConfig struct {
	Filter     string `yaml:"filter"`
	Timezone   string `yaml:"timezone"`
	WindowDays int    `yaml:"window_days"`
	DryRun     bool   `yaml:"dry_run"`
}

// FetchConfig defines HTTP behavior. There is exactly one attempt per page.
type FetchConfig struct {
	UserAgent       string `yaml:"user_agent"`
	TimeoutSec      int    `yaml:"timeout_sec" validate:"gte=1"`
	BufferSizeKb    int    `yaml:"buffer_size_kb" validate:"gte=1"`
	DelayMs         int    `yaml:"delay_ms" validate:"gte=0"`
	BreakerFailures int    `yaml:"breaker_failures" validate:"gte=0"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server" validate:"required,hostname_rfc1123"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	From       string `yaml:"from" validate:"omitempty,email"`
	To         string `yaml:"to" validate:"omitempty,email"`
	SMTPPort   int    `yaml:"smtp_port" validate:"gte=1,lte=65535"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig defines where run metrics are written.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	return &Config{
		HEP: HEPConfig{
			BaseURL: DefaultBaseURL,
		},
		Check: CheckConfig{
			WindowDays: DefaultWindowDays,
		},
		Fetch: FetchConfig{
			TimeoutSec:      DefaultTimeoutSec,
			BufferSizeKb:    DefaultBufferSizeKb,
			DelayMs:         DefaultDelayMs,
			BreakerFailures: DefaultBreakerFailures,
		},
		Email: EmailConfig{
			SMTPServer: DefaultSMTPServer,
			SMTPPort:   DefaultSMTPPort,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// Load builds the configuration the way the command does: defaults, then the
// YAML file (explicit path, or DefaultConfigPath if it exists), then .env and
// environment variables. The result is not validated.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}

	cfg := Default()

	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. Unset or empty
// variables leave the current value untouched.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	setString("HEP_BASE_URL", &c.HEP.BaseURL)
	setString("HEP_CITY", &c.HEP.AreaCode)
	setString("HEP_OFFICE", &c.HEP.OfficeCode)
	setString("HEP_FILTER", &c.Check.Filter)
	setString("HEP_TIMEZONE", &c.Check.Timezone)
	setString("TO_EMAIL", &c.Email.To)
	setString("FROM_EMAIL", &c.Email.From)
	setString("SMTP_USERNAME", &c.Email.Username)
	setString("SMTP_SERVER", &c.Email.SMTPServer)
	setString("LOG_LEVEL", &c.Logging.Level)
	setString("METRICS_TEXTFILE", &c.Metrics.TextfilePath)

	// Passwords may legitimately carry surrounding spaces.
	if v := getenv("SMTP_PASSWORD"); v != "" {
		c.Email.Password = v
	}

	ints := map[string]*int{
		"HEP_WINDOW_DAYS": &c.Check.WindowDays,
		"SMTP_PORT":       &c.Email.SMTPPort,
	}

	for key, dst := range ints {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfigValue, key, v)
		}

		*dst = n
	}

	return nil
}

// Validate validates the configuration. Only configuration problems are
// fatal for a run, so everything is checked before the first fetch.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HEP.AreaCode) == "" {
		return ErrMissingAreaCode
	}

	if strings.TrimSpace(c.HEP.OfficeCode) == "" {
		return ErrMissingOfficeCode
	}

	if c.Check.WindowDays < 0 || c.Check.WindowDays > maxWindowDays {
		return ErrInvalidWindowDays
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	if !c.Check.DryRun {
		e := c.Email
		if e.To == "" || e.From == "" || e.Username == "" || e.Password == "" {
			return ErrMissingEmail
		}
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfigValue, err)
	}

	return nil
}

// Location returns the time zone used to compute the look-ahead dates.
// An empty timezone means the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Check.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Check.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, c.Check.Timezone)
	}

	return loc, nil
}

// GetTimeout returns the per-request timeout.
func (f *FetchConfig) GetTimeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// GetDelay returns the pause between two day fetches.
func (f *FetchConfig) GetDelay() time.Duration {
	return time.Duration(f.DelayMs) * time.Millisecond
}

// String returns a string representation of the config without secrets.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Area: %s, Office: %s, WindowDays: %d, Filter: %q, DryRun: %t}",
		c.HEP.AreaCode,
		c.HEP.OfficeCode,
		c.Check.WindowDays,
		c.Check.Filter,
		c.Check.DryRun,
	)
}
