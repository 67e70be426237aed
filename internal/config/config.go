package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort         = 8080
	defaultTimeoutSec   = 10
	defaultMaxValueSize = 1 << 20

	// PathEnvVar names a config file that takes precedence over the per-env lookup.
	PathEnvVar = "STRINDEX_CONFIG"
)

// Config holds the strindex API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // empty means the env default
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// Addr is the listen address for the HTTP server.
func (h HTTPConfig) Addr() string { return fmt.Sprintf(":%d", h.Port) }

// ReadTimeout returns ReadTimeoutSec as a duration.
func (h HTTPConfig) ReadTimeout() time.Duration { return seconds(h.ReadTimeoutSec) }

// WriteTimeout returns WriteTimeoutSec as a duration.
func (h HTTPConfig) WriteTimeout() time.Duration { return seconds(h.WriteTimeoutSec) }

// ShutdownTimeout returns ShutdownSec as a duration.
func (h HTTPConfig) ShutdownTimeout() time.Duration { return seconds(h.ShutdownSec) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// Record store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// StoreConfig holds record store settings.
type StoreConfig struct {
	Driver       string `yaml:"driver"`          // memory (default) or sqlite
	DSN          string `yaml:"dsn"`             // sqlite only; empty means a private in-memory database
	MaxRecords   int    `yaml:"max_records"`     // 0 = unlimited
	MaxValueSize int    `yaml:"max_value_bytes"` // request body limit for POST /strings
}

// Load reads the configuration for env (local, dev, docker, prod).
// $STRINDEX_CONFIG, when set, wins over the env lookup.
func Load(env string) (Config, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		return LoadFile(p)
	}
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates the YAML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// GetEnv returns the environment name from $ENV, defaulting to "local".
func GetEnv() string {
	if env := strings.TrimSpace(os.Getenv("ENV")); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultPort
	}
	for _, sec := range []*int{&c.HTTP.ReadTimeoutSec, &c.HTTP.WriteTimeoutSec, &c.HTTP.ShutdownSec} {
		if *sec <= 0 {
			*sec = defaultTimeoutSec
		}
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Store.MaxValueSize <= 0 {
		c.Store.MaxValueSize = defaultMaxValueSize
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	for _, o := range c.HTTP.CORSOrigins {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, errors.New("http.cors_origins must not contain empty entries"))
			break
		}
	}
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %s or %s, got %q", DriverMemory, DriverSQLite, c.Store.Driver))
	}
	if c.Store.MaxRecords < 0 {
		errs = append(errs, fmt.Errorf("store.max_records must be >= 0, got %d", c.Store.MaxRecords))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// findConfigPath prefers ./config/<env>.yaml, then the repository's config dir.
func findConfigPath(env string) string {
	name := env + ".yaml"
	local := filepath.Join("config", name)
	if _, err := os.Stat(local); err == nil {
		return local
	}
	if _, src, _, ok := runtime.Caller(0); ok {
		// internal/config/config.go -> repository root
		root := filepath.Join(filepath.Dir(src), "..", "..")
		if p := filepath.Join(root, "config", name); fileExists(p) {
			return p
		}
	}
	return local
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandEnvVars substitutes ${VAR} and ${VAR:-default}. An empty VAR counts as unset.
func expandEnvVars(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		m := envRef.FindSubmatch(ref)
		if v := os.Getenv(string(m[1])); v != "" {
			return []byte(v)
		}
		return m[3]
	})
}
