// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/j-veylop/partner-console-tui/internal/models"
)

// Config holds the application configuration.
type Config struct {
	// EnvPath is the .env file that was loaded, empty when none was found.
	EnvPath        string
	Seed           int
	Region         string
	DaysBack       int
	ExportDir      string
	SnapshotDBPath string
	LogPath        string
	NotifyOnExport bool
	WatchEnv       bool
}

// Load reads configuration from .env files and environment variables and
// validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply overrides first
// and call Validate themselves.
func Read() (*Config, error) {
	envPath := findEnvFile(getEnvPaths())
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		EnvPath:        envPath,
		Seed:           getEnvInt(EnvSeed, DefaultSeed),
		Region:         getEnvString("DEMO_REGION", models.AllRegions),
		DaysBack:       getEnvInt("DEMO_DAYS_BACK", DefaultDaysBack),
		ExportDir:      getEnvString("EXPORT_DIR", getDefaultExportDir()),
		SnapshotDBPath: getEnvString("SNAPSHOT_DB_PATH", ""),
		LogPath:        getEnvString("LOG_PATH", getDefaultLogPath()),
		NotifyOnExport: getEnvBool("NOTIFY_ON_EXPORT", true),
		WatchEnv:       getEnvBool("WATCH_ENV", true),
	}

	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise produce an empty dashboard.
func (c *Config) Validate() error {
	if c.DaysBack <= 0 {
		return fmt.Errorf("DEMO_DAYS_BACK must be a positive number of days, got %d", c.DaysBack)
	}
	if !models.IsKnownRegion(c.Region) {
		return fmt.Errorf("DEMO_REGION %q is not %q or a known region", c.Region, models.AllRegions)
	}
	return nil
}

// ReadSeed parses DEMO_SEED from the .env file at path without touching the
// process environment. ok is false when the file does not set it.
func ReadSeed(path string) (seed int, ok bool, err error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw, found := values[EnvSeed]
	if !found || strings.TrimSpace(raw) == "" {
		return 0, false, nil
	}

	seed, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q: %w", EnvSeed, raw, err)
	}
	return seed, true, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "partner-console", ".env"),
			filepath.Join(home, ".partner-console", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// findEnvFile returns the first path that exists.
func findEnvFile(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// getDefaultExportDir returns the current directory, where the browser
// version of the demo dropped its download.
func getDefaultExportDir() string {
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pct.log"
	}
	return filepath.Join(home, ".config", "partner-console", "pct.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts anything strconv.ParseBool does, plus "yes"/"no".
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
