// Package config loads server settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Port    string        `yaml:"port"`
	Store   StoreConfig   `yaml:"store"`
	Auth    AuthConfig    `yaml:"auth"`
	Session SessionConfig `yaml:"session"`
	Redis   RedisConfig   `yaml:"redis"`
	Admin   AdminConfig   `yaml:"admin"`
	Log     LogConfig     `yaml:"log"`
	Jobs    JobsConfig    `yaml:"jobs"`
}

type StoreConfig struct {
	Driver         string `yaml:"driver"`
	PostgresDSN    string `yaml:"postgres_dsn"`
	MySQLDSN       string `yaml:"mysql_dsn"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
	// SeedOnStart is nil until set so the default can depend on the driver.
	SeedOnStart *bool `yaml:"seed_on_start"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`
	RateLimit float64       `yaml:"rate_limit"`
	RateBurst int           `yaml:"rate_burst"`
}

type SessionConfig struct {
	Store string        `yaml:"store"`
	TTL   time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // host:port or redis:// URL
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type JobsConfig struct {
	SweepSchedule string `yaml:"sweep_schedule"`
}

func Default() *Config {
	return &Config{
		Port:    "8080",
		Store:   StoreConfig{Driver: "memory"},
		Auth:    AuthConfig{JWTTTL: 24 * time.Hour, RateLimit: 5, RateBurst: 10},
		Session: SessionConfig{Store: "memory", TTL: 7 * 24 * time.Hour},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Log:     LogConfig{Level: "info", Format: "json"},
		Jobs:    JobsConfig{SweepSchedule: "@every 1h"},
	}
}

// Load builds the configuration. An empty path skips the YAML file; a
// missing .env file is ignored.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "APP_PORT")
	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.PostgresDSN, "PG_DSN")
	setString(&c.Store.MySQLDSN, "MYSQL_DSN")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Session.Store, "SESSION_STORE")
	setString(&c.Redis.Addr, "REDIS_URL")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Admin.Username, "ADMIN_USERNAME")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Jobs.SweepSchedule, "SWEEP_SCHEDULE")

	var errs []error
	if v, ok := lookup("MIGRATE_ON_START"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("MIGRATE_ON_START", err))
		c.Store.MigrateOnStart = b
	}
	if v, ok := lookup("SEED_ON_START"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("SEED_ON_START", err))
		c.Store.SeedOnStart = &b
	}
	if v, ok := lookup("JWT_TTL"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("JWT_TTL", err))
		c.Auth.JWTTTL = d
	}
	if v, ok := lookup("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("SESSION_TTL", err))
		c.Session.TTL = d
	}
	if v, ok := lookup("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("REDIS_DB", err))
		c.Redis.DB = n
	}
	if v, ok := lookup("AUTH_RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, envErr("AUTH_RATE_LIMIT", err))
		c.Auth.RateLimit = f
	}
	if v, ok := lookup("AUTH_RATE_BURST"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("AUTH_RATE_BURST", err))
		c.Auth.RateBurst = n
	}
	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	var errs []error

	c.Store.Driver = strings.ToLower(c.Store.Driver)
	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("PG_DSN is required for the postgres store"))
		}
	case "mysql":
		if c.Store.MySQLDSN == "" {
			errs = append(errs, errors.New("MYSQL_DSN is required for the mysql store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	if c.Auth.JWTSecret == "" {
		if c.Store.Driver != "memory" {
			errs = append(errs, errors.New("JWT_SECRET is required outside memory mode"))
		} else {
			c.Auth.JWTSecret = devJWTSecret
		}
	}
	if c.Auth.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Auth.RateLimit <= 0 || c.Auth.RateBurst <= 0 {
		errs = append(errs, errors.New("auth rate limit and burst must be positive"))
	}

	c.Session.Store = strings.ToLower(c.Session.Store)
	if c.Session.Store != "memory" && c.Session.Store != "redis" {
		errs = append(errs, fmt.Errorf("unknown session store %q", c.Session.Store))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ShouldSeed reports whether sample data is inserted on start.
func (c *Config) ShouldSeed() bool {
	if c.Store.SeedOnStart != nil {
		return *c.Store.SeedOnStart
	}
	return c.Store.Driver == "memory"
}

// DSN returns the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	switch c.Store.Driver {
	case "postgres":
		return c.Store.PostgresDSN
	case "mysql":
		return c.Store.MySQLDSN
	}
	return ""
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func envErr(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}
