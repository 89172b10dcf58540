// Package config loads folio settings from defaults, an optional config
// file, a .env file and the process environment.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/evcraddock/folio/internal/email"
)

// Storage backends.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds server configuration.
type Config struct {
	Port         int      `yaml:"port" toml:"port"`
	CommentsFile string   `yaml:"comments_file" toml:"comments_file"`
	Storage      string   `yaml:"storage" toml:"storage"`
	DBPath       string   `yaml:"db_path" toml:"db_path"`
	DevMode      bool     `yaml:"dev_mode" toml:"dev_mode"`
	CORSOrigins  []string `yaml:"cors_origins" toml:"cors_origins"`
	SMTP         SMTP     `yaml:"smtp" toml:"smtp"`
}

// SMTP holds outgoing mail settings.
type SMTP struct {
	Host    string        `yaml:"host" toml:"host"`
	Port    string        `yaml:"port" toml:"port"`
	User    string        `yaml:"user" toml:"user"`
	Pass    string        `yaml:"pass" toml:"pass"`
	To      string        `yaml:"to" toml:"to"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:         5000,
		CommentsFile: "comments.json",
		Storage:      StorageJSON,
		DBPath:       "comments.db",
		CORSOrigins:  []string{"*"},
		SMTP: SMTP{
			Host:    "smtp.gmail.com",
			Port:    "587",
			To:      "your-email@example.com",
			Timeout: 30 * time.Second,
		},
	}
}

// Load builds the effective configuration. path may be empty; envFile is
// read only if it exists. Process environment wins over envFile, which
// wins over the config file.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			vars, err := godotenv.Read(envFile)
			if err != nil {
				return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
			}
			dotenv = vars
		}
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// readFile decodes a YAML or TOML file, chosen by extension, over cfg.
func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}

// applyEnv overrides cfg with any variables lookup finds. The SMTP names
// match the variables the site has always been deployed with.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("SMTP_SERVER", &cfg.SMTP.Host)
	str("SMTP_PORT", &cfg.SMTP.Port)
	str("SMTP_USERNAME", &cfg.SMTP.User)
	str("SMTP_PASSWORD", &cfg.SMTP.Pass)
	str("YOUR_EMAIL", &cfg.SMTP.To)
	str("FOLIO_COMMENTS_FILE", &cfg.CommentsFile)
	str("FOLIO_STORAGE", &cfg.Storage)
	str("FOLIO_DB", &cfg.DBPath)

	if v, ok := lookup("SMTP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SMTP_TIMEOUT: %w", err)
		}
		cfg.SMTP.Timeout = d
	}
	if v, ok := lookup("FOLIO_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FOLIO_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v, ok := lookup("FOLIO_DEV_MODE"); ok && v != "" {
		cfg.DevMode = v == "true"
	}
	if v, ok := lookup("FOLIO_CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Storage {
	case StorageJSON, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q (want json, sqlite or memory)", c.Storage)
	}
	if _, err := strconv.Atoi(c.SMTP.Port); err != nil {
		return fmt.Errorf("SMTP port %q is not a number", c.SMTP.Port)
	}
	return nil
}

// Mail returns the SMTP settings for the email package.
func (c Config) Mail() email.SMTPConfig {
	return email.SMTPConfig{
		Host:    c.SMTP.Host,
		Port:    c.SMTP.Port,
		User:    c.SMTP.User,
		Pass:    c.SMTP.Pass,
		To:      c.SMTP.To,
		Timeout: c.SMTP.Timeout,
	}
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.SMTP.Pass != "" {
		c.SMTP.Pass = "********"
	}
	c.CORSOrigins = append([]string(nil), c.CORSOrigins...)
	return c
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
