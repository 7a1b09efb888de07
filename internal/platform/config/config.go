package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// StoreKind selects the import store backend.
type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StoreSQLite   StoreKind = "sqlite"
	StorePostgres StoreKind = "postgres"
	StoreRedis    StoreKind = "redis"
	StoreBadger   StoreKind = "badger"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"ADDR"             envDefault:":8080"`
	Store           StoreKind     `env:"STORE"            envDefault:"memory"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"       envDefault:"text"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	// MaxBodyBytes caps request bodies; imports of ~10k citizens fit comfortably.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"33554432"`

	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"census.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	Redis   RedisConfig   `envPrefix:"REDIS_"`
	Badger  BadgerConfig  `envPrefix:"BADGER_"`
	Breaker BreakerConfig `envPrefix:"BREAKER_"`
}

// BreakerConfig guards the networked stores (postgres, redis).
type BreakerConfig struct {
	FailureThreshold int           `env:"FAILURE_THRESHOLD" envDefault:"5"`
	SuccessThreshold int           `env:"SUCCESS_THRESHOLD" envDefault:"2"`
	Cooldown         time.Duration `env:"COOLDOWN"          envDefault:"10s"`
}

// RedisConfig configures the go-redis client.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"  envDefault:"3s"`
}

// BadgerConfig configures the embedded Badger store.
type BadgerConfig struct {
	Path           string        `env:"PATH"             envDefault:"census-badger"`
	SyncWrites     bool          `env:"SYNC_WRITES"      envDefault:"true"`
	GCInterval     time.Duration `env:"GC_INTERVAL"      envDefault:"5m"`
	GCDiscardRatio float64       `env:"GC_DISCARD_RATIO" envDefault:"0.5"`
}

const envPrefix = "CENSUS_"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	return parse(env.Options{Prefix: envPrefix})
}

// FromMap builds a Server config from an explicit variable set instead of the
// process environment. Keys carry the CENSUS_ prefix.
func FromMap(vars map[string]string) (Server, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: vars})
}

func parse(opts env.Options) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects combinations that would only fail later at startup.
func (s Server) Validate() error {
	switch s.Store {
	case StoreMemory, StoreSQLite, StoreBadger:
	case StorePostgres:
		if s.PostgresDSN == "" {
			return fmt.Errorf("CENSUS_POSTGRES_DSN is required for the postgres store")
		}
	case StoreRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("CENSUS_REDIS_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store %q", s.Store)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", s.LogFormat)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	if s.Breaker.FailureThreshold <= 0 || s.Breaker.SuccessThreshold <= 0 {
		return fmt.Errorf("breaker thresholds must be positive")
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}
