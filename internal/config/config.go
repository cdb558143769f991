package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAppName         = "WasteZero"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultStorageDriver   = DriverSQLite
	defaultSQLitePath      = "wastezero.db"
	defaultStoragePrefix   = "wastezero_"
	defaultLoginLatency    = 400 * time.Millisecond
	defaultRegisterLatency = 500 * time.Millisecond
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultLoginRateLimit  = 5
	configFileEnvVar       = "WASTEZERO_CONFIG"
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Storage drivers understood by the storage factory.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config captures application runtime configuration loaded from an optional
// YAML file and environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	StorageDriver   string
	SQLitePath      string
	RedisURL        string
	StoragePrefix   string
	LoginLatency    time.Duration
	RegisterLatency time.Duration
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
	LoginRateLimit  int
}

// fileConfig mirrors Config for YAML decoding. Durations are kept as strings
// so they accept the same "400ms" notation as the environment.
type fileConfig struct {
	AppName         string `yaml:"app_name"`
	AppEnv          string `yaml:"app_env"`
	Port            string `yaml:"port"`
	LogLevel        string `yaml:"log_level"`
	StorageDriver   string `yaml:"storage_driver"`
	SQLitePath      string `yaml:"sqlite_path"`
	RedisURL        string `yaml:"redis_url"`
	StoragePrefix   string `yaml:"storage_prefix"`
	LoginLatency    string `yaml:"login_latency"`
	RegisterLatency string `yaml:"register_latency"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	IdempotencyTTL  string `yaml:"idempotency_ttl"`
	LoginRateLimit  int    `yaml:"login_rate_limit"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		AppName:         defaultAppName,
		AppEnv:          defaultAppEnv,
		Port:            defaultPort,
		LogLevel:        defaultLogLevel,
		StorageDriver:   defaultStorageDriver,
		SQLitePath:      defaultSQLitePath,
		StoragePrefix:   defaultStoragePrefix,
		LoginLatency:    defaultLoginLatency,
		RegisterLatency: defaultRegisterLatency,
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
		LoginRateLimit:  defaultLoginRateLimit,
	}
}

// Load reads configuration values from the file named by WASTEZERO_CONFIG
// (if any), then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(configFileEnvVar); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.AppName, fc.AppName)
	setString(&c.AppEnv, fc.AppEnv)
	setString(&c.Port, fc.Port)
	setString(&c.LogLevel, strings.ToLower(fc.LogLevel))
	setString(&c.StorageDriver, strings.ToLower(fc.StorageDriver))
	setString(&c.SQLitePath, fc.SQLitePath)
	setString(&c.RedisURL, fc.RedisURL)
	setString(&c.StoragePrefix, fc.StoragePrefix)
	if fc.LoginRateLimit > 0 {
		c.LoginRateLimit = fc.LoginRateLimit
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"login_latency", fc.LoginLatency, &c.LoginLatency},
		{"register_latency", fc.RegisterLatency, &c.RegisterLatency},
		{"shutdown_timeout", fc.ShutdownTimeout, &c.ShutdownPeriod},
		{"idempotency_ttl", fc.IdempotencyTTL, &c.IdempotencyTTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s in config file: %w", d.name, err)
		}
		*d.dst = v
	}

	return nil
}

func (c *Config) applyEnv() error {
	c.AppName = getEnv("APP_NAME", c.AppName)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", c.StorageDriver))
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.StoragePrefix = getEnv("STORAGE_PREFIX", c.StoragePrefix)

	if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
		}
		c.LoginRateLimit = n
	}

	for name, dst := range map[string]*time.Duration{
		"LOGIN_LATENCY":    &c.LoginLatency,
		"REGISTER_LATENCY": &c.RegisterLatency,
	} {
		if v := os.Getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = d
		}
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		c.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		c.ShutdownPeriod = d
	}

	if v := os.Getenv(idemTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", idemTTLSecondsEnvVar, err)
		}
		c.IdempotencyTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(idemTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", idemTTLDurEnvVar, err)
		}
		c.IdempotencyTTL = d
	}

	return nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set when STORAGE_DRIVER=%s", DriverSQLite)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when STORAGE_DRIVER=%s", DriverRedis)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.LoginLatency < 0 || c.RegisterLatency < 0 {
		return fmt.Errorf("submit latency must not be negative")
	}

	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
