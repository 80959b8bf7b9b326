// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Database() DatabaseConfig
	Server() ServerConfig
	Notify() NotifyConfig
	Ingest() IngestConfig
}

// Config holds the entire application configuration. It uses private fields
// to enforce access through the Interface's getter methods.
type Config struct {
	logger   LoggerConfig
	database DatabaseConfig
	server   ServerConfig
	notify   NotifyConfig
	ingest   IngestConfig
}

// rawConfig is the decode target for viper. mapstructure populates fields by
// reflection and silently skips unexported ones, so Config itself cannot be
// the target; decode into this exported mirror and copy the sections over.
type rawConfig struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
}

func unmarshalConfig(v *viper.Viper) (*Config, error) {
	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, err
	}
	return &Config{
		logger:   raw.Logger,
		database: raw.Database,
		server:   raw.Server,
		notify:   raw.Notify,
		ingest:   raw.Ingest,
	}, nil
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.logger }
func (c *Config) Database() DatabaseConfig { return c.database }
func (c *Config) Server() ServerConfig     { return c.server }
func (c *Config) Notify() NotifyConfig     { return c.notify }
func (c *Config) Ingest() IngestConfig     { return c.ingest }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// DatabaseConfig holds the database connection details. When URL is empty the
// application falls back to the in-memory store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"-"`
}

// ServerConfig tunes the HTTP API server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// NotifyConfig configures the outbound webhook notifiers. Secrets come from
// the environment, never from the config file.
type NotifyConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Slack   SlackConfig   `mapstructure:"slack" yaml:"slack"`
	Jira    JiraConfig    `mapstructure:"jira" yaml:"jira"`
}

// SlackConfig holds the Slack incoming-webhook settings.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url" yaml:"-"`
}

// JiraConfig holds the Jira Cloud REST settings for issue creation.
type JiraConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	Email      string `mapstructure:"email" yaml:"email"`
	APIToken   string `mapstructure:"api_token" yaml:"-"`
	ProjectKey string `mapstructure:"project_key" yaml:"project_key"`
}

// IngestConfig tunes the dedup engine.
type IngestConfig struct {
	DefaultExposure    string `mapstructure:"default_exposure" yaml:"default_exposure"`
	DefaultCriticality string `mapstructure:"default_criticality" yaml:"default_criticality"`
	// NotifyMinSeverity suppresses webhook noise below this severity level.
	NotifyMinSeverity string `mapstructure:"notify_min_severity" yaml:"notify_min_severity"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := unmarshalConfig(v)
	if err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "secops-dashboard")
	v.SetDefault("logger.log_file", "secops.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", int64(32<<20))

	// -- Notify --
	v.SetDefault("notify.timeout", "10s")

	// -- Ingest --
	v.SetDefault("ingest.default_exposure", "internal")
	v.SetDefault("ingest.default_criticality", "medium")
	v.SetDefault("ingest.notify_min_severity", "medium")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind environment variables for sensitive data
	v.BindEnv("database.url", "SECOPS_DATABASE_URL")
	v.BindEnv("notify.slack.webhook_url", "SLACK_WEBHOOK_URL")
	v.BindEnv("notify.jira.base_url", "JIRA_BASE_URL")
	v.BindEnv("notify.jira.email", "JIRA_EMAIL")
	v.BindEnv("notify.jira.api_token", "JIRA_API_TOKEN")
	v.BindEnv("notify.jira.project_key", "JIRA_PROJECT_KEY")

	cfg, err := unmarshalConfig(v)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be a positive integer")
	}
	if c.notify.Timeout <= 0 {
		return fmt.Errorf("notify.timeout must be a positive duration")
	}
	if err := c.notify.Jira.Validate(); err != nil {
		return fmt.Errorf("notify.jira configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the Jira settings. Jira is optional; it is considered
// enabled only when every field is present, and partially-configured setups
// are rejected rather than silently ignored.
func (j *JiraConfig) Validate() error {
	set := 0
	for _, f := range []string{j.BaseURL, j.Email, j.APIToken, j.ProjectKey} {
		if f != "" {
			set++
		}
	}
	if set != 0 && set != 4 {
		return fmt.Errorf("base_url, email, api_token and project_key must all be set to enable Jira")
	}
	return nil
}

// Enabled reports whether the Jira notifier is fully configured.
func (j *JiraConfig) Enabled() bool {
	return j.BaseURL != "" && j.Email != "" && j.APIToken != "" && j.ProjectKey != ""
}
