package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig(newViper())

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(5055), cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "courses.json", cfg.Catalog.Path)
	assert.False(t, cfg.Sentry.Enabled)
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, "advisor.notifications", cfg.NATS.Subject)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8080")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_PORT", "2465")
	t.Setenv("MAIL_SENDER", " advisor@example.com ")
	t.Setenv("MAIL_PASSWORD", "app-password")
	t.Setenv("MAIL_TIMEOUT", "3s")
	t.Setenv("CATALOG_PATH", "/data/courses.json")
	t.Setenv("SENTRY_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg := loadConfig(newViper())

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 2465, cfg.Mail.Port)
	assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "/data/courses.json", cfg.Catalog.Path)
	assert.True(t, cfg.Sentry.Enabled)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)

	cred := cfg.Mail.Credential()
	assert.Equal(t, "advisor@example.com", cred.SenderAddress)
	assert.Equal(t, "app-password", cred.Secret)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")

	cfg := loadConfig(newViper())

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewConfig_WithoutCredentials(t *testing.T) {
	t.Setenv("MAIL_SENDER", "")
	t.Setenv("MAIL_PASSWORD", "")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Mail.Credential().Secret)
}

func TestLoadConfig_MailCredentialIgnoresFile(t *testing.T) {
	t.Setenv("MAIL_SENDER", "")
	t.Setenv("MAIL_PASSWORD", "")

	path := filepath.Join(t.TempDir(), "advisor.yaml")
	yaml := "mail:\n  host: smtp.example.com\n  sender: file@example.com\n  password: from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := loadConfig(v)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host, "non-secret mail keys still come from the file")
	assert.Empty(t, cfg.Mail.Sender)
	assert.Empty(t, cfg.Mail.Password)

	t.Setenv("MAIL_SENDER", "advisor@example.com")
	t.Setenv("MAIL_PASSWORD", "app-password")

	cfg = loadConfig(v)
	assert.Equal(t, "advisor@example.com", cfg.Mail.Sender)
	assert.Equal(t, "app-password", cfg.Mail.Password)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		level    string
		logDebug bool
		wantJSON bool
	}{
		{"dev text info", "dev", "info", false, false},
		{"dev text debug", "dev", "debug", true, false},
		{"prod json", "prod", "info", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.env, tt.level)

			logger.Debug("debug line")
			logger.Info("info line", "course_code", "MECS1033")

			out := buf.String()
			assert.Contains(t, out, "info line")
			assert.Equal(t, tt.logDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.wantJSON, strings.HasPrefix(out, "{"))
			assert.Contains(t, out, ServiceName)
		})
	}
}

func TestNewLogger_RedactsSecrets(t *testing.T) {
	for _, env := range []string{"dev", "prod"} {
		t.Run(env, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, env, "info").Info("relay login", "password", "hunter2", "sender", "advisor@example.com")

			out := buf.String()
			assert.NotContains(t, out, "hunter2")
			assert.Contains(t, out, "[REDACTED]")
			assert.Contains(t, out, "advisor@example.com")
		})
	}
}
