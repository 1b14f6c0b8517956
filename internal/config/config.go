// Package config loads relay configuration from defaults, an optional YAML
// file and the process environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Mail    MailConfig    `mapstructure:"mail" yaml:"mail"`
	Audit   AuditConfig   `mapstructure:"audit" yaml:"audit"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch"`
	NATS    NATSConfig    `mapstructure:"nats" yaml:"nats"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// StorageConfig selects where downloaded archives are written.
type StorageConfig struct {
	Backend      string `mapstructure:"backend" yaml:"backend"` // "gcs" (default) or "memory"
	Bucket       string `mapstructure:"bucket" yaml:"bucket"`
	BucketURL    string `mapstructure:"bucket_url" yaml:"bucket_url"`
	ProjectID    string `mapstructure:"project_id" yaml:"project_id"` // informational; not attached to storage requests
	Credentials  string `mapstructure:"credentials" yaml:"credentials"` // base64 service account key or raw JSON
	ObjectPrefix string `mapstructure:"object_prefix" yaml:"object_prefix"`
}

// MailConfig holds submitter notification settings.
type MailConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend"` // "mailgun" (default) or "log"
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`
	Domain  string        `mapstructure:"domain" yaml:"domain"`
	APIBase string        `mapstructure:"api_base" yaml:"api_base"`
	From    string        `mapstructure:"from" yaml:"from"`
	Subject string        `mapstructure:"subject" yaml:"subject"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// AuditConfig selects the delivery record backend.
type AuditConfig struct {
	Backend     string `mapstructure:"backend" yaml:"backend"` // dynamodb, redis, postgres, sqlite, log
	Table       string `mapstructure:"table" yaml:"table"`
	Region      string `mapstructure:"region" yaml:"region"`
	RedisURL    string `mapstructure:"redis_url" yaml:"redis_url"`
	DatabaseURL string `mapstructure:"database_url" yaml:"database_url"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ArchiveSuffix string        `mapstructure:"archive_suffix" yaml:"archive_suffix"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
}

type NATSConfig struct {
	URL             string `mapstructure:"url" yaml:"url"`
	Subject         string `mapstructure:"subject" yaml:"subject"`
	Queue           string `mapstructure:"queue" yaml:"queue"`
	PublishOutcomes bool   `mapstructure:"publish_outcomes" yaml:"publish_outcomes"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// legacyEnv maps config keys to the environment variable names used by
// existing deployments. RELAY_-prefixed names take precedence.
var legacyEnv = map[string]string{
	"audit.table":         "DYNAMODB_TABLE_NAME",
	"audit.region":        "AWS_REGION",
	"storage.bucket":      "GOOGLE_STORAGE_BUCKET_NAME",
	"storage.bucket_url":  "GOOGLE_STORAGE_BUCKET_URL",
	"storage.project_id":  "GCP_PROJECT_ID",
	"storage.credentials": "GCP_SERVICE_ACCOUNT_KEY",
	"mail.api_key":        "MAILGUN_API_KEY",
	"mail.domain":         "DOMAIN",
	"nats.url":            "NATS_URL",
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("storage.backend", "gcs")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.bucket_url", "")
	v.SetDefault("storage.project_id", "")
	v.SetDefault("storage.credentials", "")
	v.SetDefault("storage.object_prefix", "")
	v.SetDefault("mail.backend", "mailgun")
	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.domain", "")
	v.SetDefault("mail.api_base", "")
	v.SetDefault("mail.from", DefaultSender)
	v.SetDefault("mail.subject", "Details of your assignment submission")
	v.SetDefault("mail.timeout", "30s")
	v.SetDefault("audit.backend", "dynamodb")
	v.SetDefault("audit.table", "")
	v.SetDefault("audit.region", "")
	v.SetDefault("audit.redis_url", "redis://localhost:6379/0")
	v.SetDefault("audit.database_url", "")
	v.SetDefault("audit.sqlite_path", "relay-audit.db")
	v.SetDefault("fetch.timeout", "5m")
	v.SetDefault("fetch.archive_suffix", ".zip")
	v.SetDefault("fetch.user_agent", "submission-relay/1.0")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "relay.submissions")
	v.SetDefault("nats.queue", "relay-workers")
	v.SetDefault("nats.publish_outcomes", false)
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/relay")
	}

	// Environment variables override (RELAY_AUDIT_BACKEND, etc.)
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := "RELAY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate reports every missing setting required by the selected backends.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case "gcs", "":
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for the gcs backend"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q (supported: gcs, memory)", c.Storage.Backend))
	}

	switch c.Mail.Backend {
	case "mailgun", "":
		if c.Mail.APIKey == "" {
			errs = append(errs, errors.New("mail.api_key is required for the mailgun backend"))
		}
		if c.Mail.Domain == "" {
			errs = append(errs, errors.New("mail.domain is required for the mailgun backend"))
		}
	case "log":
	default:
		errs = append(errs, fmt.Errorf("unknown mail backend %q (supported: mailgun, log)", c.Mail.Backend))
	}

	switch c.Audit.Backend {
	case "dynamodb", "":
		if c.Audit.Table == "" {
			errs = append(errs, errors.New("audit.table is required for the dynamodb backend"))
		}
	case "redis":
		if c.Audit.RedisURL == "" {
			errs = append(errs, errors.New("audit.redis_url is required for the redis backend"))
		}
	case "postgres":
		if c.Audit.DatabaseURL == "" {
			errs = append(errs, errors.New("audit.database_url is required for the postgres backend"))
		}
	case "sqlite":
		if c.Audit.SQLitePath == "" {
			errs = append(errs, errors.New("audit.sqlite_path is required for the sqlite backend"))
		}
	case "log":
	default:
		errs = append(errs, fmt.Errorf("unknown audit backend %q (supported: dynamodb, redis, postgres, sqlite, log)", c.Audit.Backend))
	}

	if c.Fetch.ArchiveSuffix == "" {
		errs = append(errs, errors.New("fetch.archive_suffix must not be empty"))
	}

	return errors.Join(errs...)
}

// DefaultSender is the From address used when mail.from is unset. It is the
// course's verified Mailgun sender.
const DefaultSender = "csye6225mk@demo.talentofpainting.info"

// SenderAddress returns the configured From address, or DefaultSender when
// mail.from was explicitly set empty.
func (m MailConfig) SenderAddress() string {
	if m.From != "" {
		return m.From
	}
	return DefaultSender
}

// Redacted returns a copy of the config with credentials masked.
func (c Config) Redacted() Config {
	c.Storage.Credentials = redact(c.Storage.Credentials)
	c.Mail.APIKey = redact(c.Mail.APIKey)
	c.Audit.DatabaseURL = redactURL(c.Audit.DatabaseURL)
	c.Audit.RedisURL = redactURL(c.Audit.RedisURL)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

// redactURL masks the userinfo portion of a connection URL.
func redactURL(s string) string {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return s
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return s
	}
	return scheme + "://********@" + rest[at+1:]
}
