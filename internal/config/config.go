package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendBadger   = "badger"

	StreamBackendMemory = "memory"
	StreamBackendNATS   = "nats"
)

var (
	ErrInvalidStoreBackend  = errors.New("invalid store backend")
	ErrInvalidStreamBackend = errors.New("invalid stream backend")
	ErrMissingDSN           = errors.New("postgres.dsn is not set")
	ErrInvalidBinner        = errors.New("invalid binner limits")
)

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	// Prefix for every URI handed out by browse and search responses.
	OutputURIPrefix string `mapstructure:"output_uri_prefix"`

	Store struct {
		Backend string `mapstructure:"backend"`
	} `mapstructure:"store"`

	Postgres struct {
		DSN             string        `mapstructure:"dsn"`
		MaxOpenConns    int           `mapstructure:"max_open_conns"`
		MaxIdleConns    int           `mapstructure:"max_idle_conns"`
		ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	} `mapstructure:"postgres"`

	Badger struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"badger"`

	Stream struct {
		Backend    string `mapstructure:"backend"`
		BufferSize int    `mapstructure:"buffer_size"`
	} `mapstructure:"stream"`

	NATS struct {
		URL     string `mapstructure:"url"`
		Subject string `mapstructure:"subject"`
	} `mapstructure:"nats"`

	Tick struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"tick"`

	Session struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"session"`

	EventCache struct {
		Size int `mapstructure:"size"`
	} `mapstructure:"event_cache"`

	Binner struct {
		K int `mapstructure:"k"`
		M int `mapstructure:"m"`
		N int `mapstructure:"n"`
	} `mapstructure:"binner"`
}

// SetDefaults registers every key so that env overrides work with Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("output_uri_prefix", "http://localhost:8080")
	v.SetDefault("store.backend", StoreBackendPostgres)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("badger.path", "data/badger")
	v.SetDefault("stream.backend", StreamBackendMemory)
	v.SetDefault("stream.buffer_size", 4096)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.subject", "sessions.raw")
	v.SetDefault("tick.interval", 100*time.Millisecond)
	v.SetDefault("session.timeout", 10*time.Minute)
	v.SetDefault("event_cache.size", 65536)
	v.SetDefault("binner.k", 8)
	v.SetDefault("binner.m", 30)
	v.SetDefault("binner.n", 8)
}

// Load reads the optional config file and the SESSIONS_* environment.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("SESSIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendPostgres:
		if c.Postgres.DSN == "" {
			return ErrMissingDSN
		}
	case StoreBackendBadger:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreBackend, c.Store.Backend)
	}

	switch c.Stream.Backend {
	case StreamBackendMemory, StreamBackendNATS:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStreamBackend, c.Stream.Backend)
	}

	if c.Binner.K < 1 || c.Binner.N < 1 || c.Binner.M <= c.Binner.N {
		return fmt.Errorf("%w: k=%d m=%d n=%d", ErrInvalidBinner, c.Binner.K, c.Binner.M, c.Binner.N)
	}
	return nil
}
