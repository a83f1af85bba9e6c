package internal

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dukerupert/advisor/internal/domain"
)

type Config struct {
	Env            string
	LogLevel       string
	Port           uint16
	RequestTimeout time.Duration
	Mail           MailConfig
	Catalog        CatalogConfig
	Sentry         SentryConfig
	NATS           NATSConfig
}

// MailConfig holds the relay endpoint and the single static credential.
// Sender and Password come from MAIL_SENDER and MAIL_PASSWORD only;
// mail.sender and mail.password in advisor.yaml are ignored.
type MailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
	FromName string
	Timeout  time.Duration
}

// Credential returns the transport credential assembled from the mail settings.
func (m MailConfig) Credential() domain.TransportCredential {
	return domain.TransportCredential{
		SenderAddress: m.Sender,
		Secret:        m.Password,
	}
}

type CatalogConfig struct {
	Path string
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

// NATSConfig enables outcome publication when URL is set.
type NATSConfig struct {
	URL     string
	Subject string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	v := newViper()

	// advisor.yaml is optional; environment variables always win over it.
	v.SetConfigName("advisor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, domain.Misconfigured(err, "internal.NewConfig", "failed to read advisor.yaml")
		}
	}

	return loadConfig(v), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("port", 5055)
	v.SetDefault("request.timeout", 30*time.Second)

	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 465)
	v.SetDefault("mail.from_name", "UTM Course Advisor")
	v.SetDefault("mail.timeout", 10*time.Second)

	v.SetDefault("catalog.path", "courses.json")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.enabled", false) // Disabled by default for development
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("sentry.traces_sample_rate", 0.0)
	v.SetDefault("sentry.debug", false)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "advisor.notifications")

	return v
}

func loadConfig(v *viper.Viper) *Config {
	cfg := &Config{
		Env:            v.GetString("env"),
		LogLevel:       v.GetString("log.level"),
		Port:           v.GetUint16("port"),
		RequestTimeout: v.GetDuration("request.timeout"),
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Sender:   strings.TrimSpace(os.Getenv("MAIL_SENDER")),
			Password: os.Getenv("MAIL_PASSWORD"),
			FromName: v.GetString("mail.from_name"),
			Timeout:  v.GetDuration("mail.timeout"),
		},
		Catalog: CatalogConfig{
			Path: v.GetString("catalog.path"),
		},
		Sentry: SentryConfig{
			DSN:              v.GetString("sentry.dsn"),
			Enabled:          v.GetBool("sentry.enabled"),
			Environment:      v.GetString("sentry.environment"),
			Release:          v.GetString("sentry.release"),
			SampleRate:       v.GetFloat64("sentry.sample_rate"),
			TracesSampleRate: v.GetFloat64("sentry.traces_sample_rate"),
			Debug:            v.GetBool("sentry.debug"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("nats.url"),
			Subject: v.GetString("nats.subject"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Mail.Timeout <= 0 {
		slog.Default().Warn("Invalid mail timeout. Using default: 10s", slog.Duration("value", cfg.Mail.Timeout))
		cfg.Mail.Timeout = 10 * time.Second
	}

	// Missing credentials are reported per notification, not at startup.
	if cfg.Mail.Sender == "" || cfg.Mail.Password == "" {
		slog.Default().Warn("MAIL_SENDER or MAIL_PASSWORD not set; email notifications are disabled")
	}

	return cfg
}
