// Package config loads service configuration from the environment.
//
// Values come from process environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store kinds accepted by SESSION_STORE.
const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

// DefaultSessionName is the cookie carrying the session id when SESSION_NAME is unset.
const DefaultSessionName = "_my_session_id"

// Config is the complete service configuration.
type Config struct {
	Service   ServiceConfig
	Logging   LoggingConfig
	Session   SessionConfig
	Database  DatabaseConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string
	Format string
}

// SessionConfig controls session lifetime and transport.
type SessionConfig struct {
	// Duration is the session lifetime in seconds. Zero or negative disables expiration.
	Duration int
	Name     string
	Store    string
}

// DatabaseConfig holds the Postgres connection string. Empty means no database.
type DatabaseConfig struct {
	URL string
}

// TracingConfig controls the OTLP trace exporter.
type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// ProfilingConfig controls continuous profiling.
type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// ShutdownConfig controls graceful shutdown timing. Values are Go duration strings.
type ShutdownConfig struct {
	Timeout             string
	ReadinessDrainDelay string
}

// Load reads configuration from the environment.
func Load() *Config {
	// .env is optional
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "session-auth-service"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("ENV", "development"),
			Port:    getEnv("PORT", "8080"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Session: SessionConfig{
			Duration: ParseSessionDuration(os.Getenv("SESSION_DURATION")),
			Name:     getEnv("SESSION_NAME", DefaultSessionName),
			Store:    strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("OTEL_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
		},
		Shutdown: ShutdownConfig{
			Timeout:             getEnv("SHUTDOWN_TIMEOUT", "10s"),
			ReadinessDrainDelay: getEnv("READINESS_DRAIN_DELAY", "0s"),
		},
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Service.Port == "" {
		return errors.New("PORT must not be empty")
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if c.Database.URL == "" {
			return errors.New("SESSION_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Session.Name == "" {
		return errors.New("SESSION_NAME must not be empty")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.Logging.Format)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be within [0, 1], got %v", c.Tracing.SampleRate)
	}
	if _, err := time.ParseDuration(c.Shutdown.Timeout); err != nil {
		return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if _, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay); err != nil {
		return fmt.Errorf("READINESS_DRAIN_DELAY: %w", err)
	}
	return nil
}

// MaxSessionDuration is the longest representable session lifetime in seconds.
const MaxSessionDuration = math.MaxInt64 / int64(time.Second)

// GetSessionDuration returns the session lifetime. Zero or negative means sessions never expire.
// Lifetimes beyond MaxSessionDuration seconds are capped to it.
func (c *Config) GetSessionDuration() time.Duration {
	secs := int64(c.Session.Duration)
	switch {
	case secs <= 0:
		return 0
	case secs > MaxSessionDuration:
		secs = MaxSessionDuration
	}
	return time.Duration(secs) * time.Second
}

// GetShutdownTimeoutDuration returns the HTTP shutdown timeout, 10s when unparsable.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetReadinessDrainDelayDuration returns how long /ready reports shutting_down before the server stops.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay)
	if err != nil {
		return 0
	}
	return d
}

// ParseSessionDuration converts a SESSION_DURATION value to seconds.
// Missing or non-numeric input yields 0 rather than an error. Values outside
// the int range saturate, so an oversized lifetime stays a long one.
func ParseSessionDuration(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return n
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
