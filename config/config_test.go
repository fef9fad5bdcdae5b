package config

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "empty", raw: "", want: 0},
		{name: "numeric", raw: "60", want: 60},
		{name: "surrounding spaces", raw: " 30 ", want: 30},
		{name: "negative kept", raw: "-5", want: -5},
		{name: "non-numeric", raw: "ten", want: 0},
		{name: "float", raw: "1.5", want: 0},
		{name: "beyond int range saturates", raw: "99999999999999999999", want: math.MaxInt},
		{name: "below int range saturates", raw: "-99999999999999999999", want: math.MinInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSessionDuration(tt.raw))
		})
	}
}

func TestGetSessionDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{name: "disabled", seconds: 0, want: 0},
		{name: "negative disables", seconds: -5, want: 0},
		{name: "large negative does not wrap", seconds: -9223372037, want: 0},
		{name: "one minute", seconds: 60, want: time.Minute},
		{name: "largest exact value", seconds: int(MaxSessionDuration), want: time.Duration(MaxSessionDuration) * time.Second},
		{name: "just past the limit is capped", seconds: 9223372037, want: time.Duration(MaxSessionDuration) * time.Second},
		{name: "wrap to small window is capped", seconds: 18446744074, want: time.Duration(MaxSessionDuration) * time.Second},
		{name: "max int is capped", seconds: math.MaxInt, want: time.Duration(MaxSessionDuration) * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Session: SessionConfig{Duration: tt.seconds}}
			got := cfg.GetSessionDuration()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, time.Duration(0))
		})
	}

	t.Run("oversized environment value", func(t *testing.T) {
		t.Setenv("SESSION_DURATION", "18446744074")
		assert.Equal(t, time.Duration(MaxSessionDuration)*time.Second, Load().GetSessionDuration())
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SESSION_DURATION", "")
		t.Setenv("SESSION_NAME", "")
		t.Setenv("SESSION_STORE", "")
		t.Setenv("PORT", "")

		cfg := Load()
		assert.Equal(t, 0, cfg.Session.Duration)
		assert.Equal(t, DefaultSessionName, cfg.Session.Name)
		assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
		assert.Equal(t, "8080", cfg.Service.Port)
		assert.Equal(t, time.Duration(0), cfg.GetSessionDuration())
		require.NoError(t, cfg.Validate())
	})

	t.Run("session settings from environment", func(t *testing.T) {
		t.Setenv("SESSION_DURATION", "120")
		t.Setenv("SESSION_NAME", "sid")
		t.Setenv("SESSION_STORE", "Memory")

		cfg := Load()
		assert.Equal(t, 120*time.Second, cfg.GetSessionDuration())
		assert.Equal(t, "sid", cfg.Session.Name)
		assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	})

	t.Run("malformed duration falls back to no expiration", func(t *testing.T) {
		t.Setenv("SESSION_DURATION", "forever")

		cfg := Load()
		assert.Equal(t, time.Duration(0), cfg.GetSessionDuration())
		require.NoError(t, cfg.Validate())
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Service:  ServiceConfig{Port: "8080"},
			Logging:  LoggingConfig{Level: "info", Format: "json"},
			Session:  SessionConfig{Name: DefaultSessionName, Store: SessionStoreMemory},
			Tracing:  TracingConfig{SampleRate: 1},
			Shutdown: ShutdownConfig{Timeout: "10s", ReadinessDrainDelay: "0s"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Service.Port = "" }, wantErr: "PORT"},
		{name: "unknown store", mutate: func(c *Config) { c.Session.Store = "redis" }, wantErr: "SESSION_STORE"},
		{name: "postgres without url", mutate: func(c *Config) { c.Session.Store = SessionStorePostgres }, wantErr: "DATABASE_URL"},
		{
			name: "postgres with url",
			mutate: func(c *Config) {
				c.Session.Store = SessionStorePostgres
				c.Database.URL = "postgres://localhost/auth"
			},
		},
		{name: "empty session name", mutate: func(c *Config) { c.Session.Name = "" }, wantErr: "SESSION_NAME"},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "sample rate out of range", mutate: func(c *Config) { c.Tracing.SampleRate = 1.5 }, wantErr: "OTEL_SAMPLE_RATE"},
		{name: "bad shutdown timeout", mutate: func(c *Config) { c.Shutdown.Timeout = "soon" }, wantErr: "SHUTDOWN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestShutdownDurations(t *testing.T) {
	cfg := &Config{Shutdown: ShutdownConfig{Timeout: "bogus", ReadinessDrainDelay: "2s"}}
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.Equal(t, 2*time.Second, cfg.GetReadinessDrainDelayDuration())
}
