// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultSecretKey is the development secret used when none is configured.
const DefaultSecretKey = "dev-secret-key"

// Config holds the server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// UploadDir is where payment evidence files are stored.
	UploadDir string `yaml:"upload_dir"`

	// SecretKey signs the flash-notice cookie. Nothing else uses it.
	SecretKey string `yaml:"secret_key"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// MaxUploadBytes caps the size of a multipart form submission.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:           ":8080",
		DBPath:         "./data/parking.db",
		UploadDir:      "./data/uploads",
		SecretKey:      DefaultSecretKey,
		LogLevel:       "info",
		MaxUploadBytes: 10 << 20,
	}
}

// Load builds a Config. path may be empty; a missing file at an explicit
// path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q: %w", raw, err)
		}
		cfg.MaxUploadBytes = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("addr is required")
	case c.DBPath == "":
		return errors.New("db_path is required")
	case c.UploadDir == "":
		return errors.New("upload_dir is required")
	case c.SecretKey == "":
		return errors.New("secret_key is required")
	case c.MaxUploadBytes <= 0:
		return errors.New("max_upload_bytes must be positive")
	}
	return nil
}

// UsesDefaultSecret reports whether the development secret is in effect.
func (c Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
