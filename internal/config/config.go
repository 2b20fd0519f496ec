package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAppName          = "TinyBank"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultConfigFile       = "config/default.yaml"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultVerifierTimeout  = 10 * time.Second
	defaultVerifierCacheTTL = 0
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration.
type Config struct {
	AppName          string        `yaml:"appName"`
	AppEnv           string        `yaml:"appEnv"`
	Port             string        `yaml:"port"`
	LogLevel         string        `yaml:"logLevel"`
	DatabaseURL      string        `yaml:"databaseURL"`
	RedisURL         string        `yaml:"redisURL"`
	JWTSecret        string        `yaml:"jwtSecret"`
	VerifierURL      string        `yaml:"verifierURL"`
	VerifierTimeout  time.Duration `yaml:"verifierTimeout"`
	VerifierCacheTTL time.Duration `yaml:"verifierCacheTTL"`
	IdempotencyTTL   time.Duration `yaml:"idempotencyTTL"`
	ShutdownPeriod   time.Duration `yaml:"shutdownTimeout"`
	RunMigrations    bool          `yaml:"runMigrations"`
}

// Load builds a Config from defaults, an optional YAML file and the
// environment, in that order of precedence (later wins). The file is read
// from CONFIG_FILE, or config/default.yaml when present.
func Load() (Config, error) {
	cfg := defaults()

	path := os.Getenv("CONFIG_FILE")
	required := path != ""
	if path == "" {
		path = defaultConfigFile
	}
	if err := loadFile(&cfg, path, required); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		AppName:          defaultAppName,
		AppEnv:           defaultAppEnv,
		Port:             defaultPort,
		LogLevel:         defaultLogLevel,
		VerifierTimeout:  defaultVerifierTimeout,
		VerifierCacheTTL: defaultVerifierCacheTTL,
		IdempotencyTTL:   defaultIdempotencyTTL,
		ShutdownPeriod:   defaultShutdownDelay,
	}
}

func loadFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.AppName, "APP_NAME")
	setString(&cfg.AppEnv, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.VerifierURL, "VERIFIER_URL")

	for key, dst := range map[string]*time.Duration{
		"VERIFIER_TIMEOUT":   &cfg.VerifierTimeout,
		"VERIFIER_CACHE_TTL": &cfg.VerifierCacheTTL,
		"IDEMPOTENCY_TTL":    &cfg.IdempotencyTTL,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if err := setDuration(&cfg.ShutdownPeriod, shutdownDurationEnvVar); err != nil {
		return err
	}

	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		run, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RUN_MIGRATIONS: %w", err)
		}
		cfg.RunMigrations = run
	}
	return nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.IsDev() {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	return nil
}

// IsDev reports whether the service runs in a local development mode, where
// Postgres and Redis are optional.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
