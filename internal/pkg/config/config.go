package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"

	envProduction = "production"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the Data Store backend: memory or mongo.
	StoreDriver string `env:"STORE_DRIVER, default=memory"`

	Admin   AdminConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// AdminConfig holds the single admin credential. When both are set the hash wins.
type AdminConfig struct {
	Username     string `env:"ADMIN_USERNAME,      default=admin"`
	Password     string `env:"ADMIN_PASSWORD"`
	PasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

type SessionConfig struct {
	Secret      string        `env:"SESSION_SECRET"`
	TTL         time.Duration `env:"SESSION_TTL,          default=24h"`
	CheckPeriod time.Duration `env:"SESSION_CHECK_PERIOD, default=24h"`
	// Driver selects the Session Store backend: memory or redis.
	Driver string `env:"SESSION_DRIVER, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=script_library"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith processes and validates configuration read through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// Validate checks rules that span several variables.
func (c *Config) Validate() error {
	var errs []error

	if c.Admin.Username == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME must not be empty"))
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		errs = append(errs, errors.New("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
	}
	if c.IsProduction() && c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required in production"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Session.CheckPeriod <= 0 {
		errs = append(errs, errors.New("SESSION_CHECK_PERIOD must be positive"))
	}
	if c.StoreDriver != DriverMemory && c.StoreDriver != DriverMongo {
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q: want %s or %s", c.StoreDriver, DriverMemory, DriverMongo))
	}
	if c.Session.Driver != DriverMemory && c.Session.Driver != DriverRedis {
		errs = append(errs, fmt.Errorf("SESSION_DRIVER %q: want %s or %s", c.Session.Driver, DriverMemory, DriverRedis))
	}

	return errors.Join(errs...)
}
