package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSIONS_POSTGRES_DSN", "postgres://localhost/sessions?sslmode=disable")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.Equal(t, StreamBackendMemory, cfg.Stream.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Tick.Interval)
	assert.Equal(t, 8, cfg.Binner.K)
	assert.Equal(t, 30, cfg.Binner.M)
	assert.Equal(t, 8, cfg.Binner.N)
}

func TestLoad_MissingDSN(t *testing.T) {
	_, err := Load(viper.New(), "")
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SESSIONS_STORE_BACKEND", "badger")
	t.Setenv("SESSIONS_BADGER_PATH", "/tmp/sessions")
	t.Setenv("SESSIONS_SESSION_TIMEOUT", "90s")
	t.Setenv("SESSIONS_STREAM_BACKEND", "nats")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, StoreBackendBadger, cfg.Store.Backend)
	assert.Equal(t, "/tmp/sessions", cfg.Badger.Path)
	assert.Equal(t, 90*time.Second, cfg.Session.Timeout)
	assert.Equal(t, StreamBackendNATS, cfg.Stream.Backend)
}

func TestLoad_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sessions.yaml")
	body := []byte(`
store:
  backend: badger
binner:
  k: 4
  m: 20
  n: 6
output_uri_prefix: https://sessions.example.com
`)
	require.NoError(t, os.WriteFile(file, body, 0o644))

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)

	assert.Equal(t, StoreBackendBadger, cfg.Store.Backend)
	assert.Equal(t, 4, cfg.Binner.K)
	assert.Equal(t, 20, cfg.Binner.M)
	assert.Equal(t, 6, cfg.Binner.N)
	assert.Equal(t, "https://sessions.example.com", cfg.OutputURIPrefix)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Store.Backend = StoreBackendBadger
		c.Stream.Backend = StreamBackendMemory
		c.Binner.K, c.Binner.M, c.Binner.N = 8, 30, 8
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"ok", func(c *Config) {}, nil},
		{"store", func(c *Config) { c.Store.Backend = "mysql" }, ErrInvalidStoreBackend},
		{"stream", func(c *Config) { c.Stream.Backend = "kafka" }, ErrInvalidStreamBackend},
		{"binner m not above n", func(c *Config) { c.Binner.M = 8 }, ErrInvalidBinner},
		{"binner k", func(c *Config) { c.Binner.K = 0 }, ErrInvalidBinner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
