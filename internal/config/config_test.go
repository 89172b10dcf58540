package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SMTP_SERVER", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_TIMEOUT", "YOUR_EMAIL",
	"FOLIO_PORT", "FOLIO_COMMENTS_FILE", "FOLIO_STORAGE", "FOLIO_DB", "FOLIO_DEV_MODE", "FOLIO_CORS_ORIGINS",
}

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "comments.json", cfg.CommentsFile)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.False(t, cfg.Mail().IsConfigured())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_SERVER", "mail.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USERNAME", "site@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_TIMEOUT", "5s")
	t.Setenv("YOUR_EMAIL", "owner@example.com")
	t.Setenv("FOLIO_PORT", "8081")
	t.Setenv("FOLIO_STORAGE", "sqlite")
	t.Setenv("FOLIO_DEV_MODE", "true")
	t.Setenv("FOLIO_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	mail := cfg.Mail()
	assert.Equal(t, "mail.example.com", mail.Host)
	assert.Equal(t, "465", mail.Port)
	assert.Equal(t, "owner@example.com", mail.To)
	assert.Equal(t, 5*time.Second, mail.Timeout)
	assert.True(t, mail.IsConfigured())
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
comments_file: /var/lib/folio/comments.json
smtp:
  host: smtp.example.com
  to: me@example.com
  timeout: 10s
`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/var/lib/folio/comments.json", cfg.CommentsFile)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port, "unset keys keep defaults")
	assert.Equal(t, 10*time.Second, cfg.SMTP.Timeout)
}

func TestLoadTOMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "folio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 7000
storage = "memory"

[smtp]
host = "smtp.example.org"
to = "me@example.org"
`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "smtp.example.org", cfg.SMTP.Host)
	assert.Equal(t, "me@example.org", cfg.SMTP.To)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "folio.ini")
	require.NoError(t, os.WriteFile(path, []byte("port=1"), 0o644))

	_, err := Load(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SMTP_USERNAME=dot@example.com\nSMTP_PASSWORD=dotpass\nYOUR_EMAIL=owner@example.com\n"), 0o644))
	t.Setenv("YOUR_EMAIL", "env@example.com")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "dot@example.com", cfg.SMTP.User)
	assert.Equal(t, "dotpass", cfg.SMTP.Pass)
	assert.Equal(t, "env@example.com", cfg.SMTP.To, "process environment wins over .env")
}

func TestLoadMissingDotEnvIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "folio.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\n"), 0o644))
	t.Setenv("FOLIO_PORT", "9100")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad port", "FOLIO_PORT", "http"},
		{"port out of range", "FOLIO_PORT", "70000"},
		{"bad storage", "FOLIO_STORAGE", "postgres"},
		{"bad smtp port", "SMTP_PORT", "submission"},
		{"bad timeout", "SMTP_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("", "")
			assert.Error(t, err)
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.SMTP.Pass = "secret"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg.Redacted()))

	assert.NotContains(t, buf.String(), "secret")
	assert.Contains(t, buf.String(), "********")
	assert.Equal(t, "secret", cfg.SMTP.Pass, "receiver is untouched")
}
