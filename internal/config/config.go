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

const defaultConfigPath = "config/config.yml"

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Dialect string `yaml:"dialect"`
}

type SessionConfig struct {
	CookieName   string `yaml:"cookie_name"`
	CookieTTL    string `yaml:"cookie_ttl"`
	CookieSecure *bool  `yaml:"cookie_secure"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	TickInterval string `yaml:"tick_interval"`
	AttemptTTL   string `yaml:"attempt_ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type StorageConfig struct {
	Driver string      `yaml:"driver"`
	Redis  RedisConfig `yaml:"redis"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type ConfigFile struct {
	App     AppConfig     `yaml:"app"`
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	OTP     OTPConfig     `yaml:"otp"`
	Storage StorageConfig `yaml:"storage"`
	Routes  RouteRules    `yaml:"routes"`
	Log     LogConfig     `yaml:"log"`
}

type Config struct {
	Port             string
	GinMode          string
	APIBaseURL       string
	APIDialect       string
	CookieName       string
	CookieTTL        time.Duration
	CookieSecure     bool
	OTP_TTL          time.Duration
	OTP_TickInterval time.Duration
	OTP_AttemptTTL   time.Duration
	StorageDriver    string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisPrefix      string
	Routes           RouteRules
	LogLevel         string
	LogDevelopment   bool
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads an optional .env, then the yaml config file (ADMIN_CONFIG or
// config/config.yml), then applies environment overrides. A missing
// config file falls back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := env("ADMIN_CONFIG", defaultConfigPath)
	configFile, err := loadConfigFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		configFile = &ConfigFile{}
	}

	return FromFile(configFile)
}

// FromFile applies defaults and environment overrides to a parsed file
func FromFile(configFile *ConfigFile) (*Config, error) {
	applyDefaults(configFile)
	applyEnv(configFile)

	cookieTTL, err := time.ParseDuration(configFile.Session.CookieTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session cookie TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	tick, err := time.ParseDuration(configFile.OTP.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP tick interval: %w", err)
	}

	attemptTTL, err := time.ParseDuration(configFile.OTP.AttemptTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid login attempt TTL: %w", err)
	}

	switch configFile.API.Dialect {
	case "kebab", "camel":
	default:
		return nil, fmt.Errorf("invalid API dialect %q: want kebab or camel", configFile.API.Dialect)
	}

	switch configFile.Storage.Driver {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid storage driver %q: want memory or redis", configFile.Storage.Driver)
	}

	if err := configFile.Routes.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		Port:             fmt.Sprintf("%d", configFile.App.Port),
		GinMode:          configFile.App.GinMode,
		APIBaseURL:       strings.TrimRight(configFile.API.BaseURL, "/"),
		APIDialect:       configFile.API.Dialect,
		CookieName:       configFile.Session.CookieName,
		CookieTTL:        cookieTTL,
		CookieSecure:     *configFile.Session.CookieSecure,
		OTP_TTL:          otpTTL,
		OTP_TickInterval: tick,
		OTP_AttemptTTL:   attemptTTL,
		StorageDriver:    configFile.Storage.Driver,
		RedisAddr:        configFile.Storage.Redis.Addr,
		RedisPassword:    configFile.Storage.Redis.Password,
		RedisDB:          configFile.Storage.Redis.DB,
		RedisPrefix:      configFile.Storage.Redis.Prefix,
		Routes:           configFile.Routes,
		LogLevel:         configFile.Log.Level,
		LogDevelopment:   configFile.Log.Development,
	}, nil
}

func applyDefaults(f *ConfigFile) {
	if f.App.Port == 0 {
		f.App.Port = 3000
	}
	if f.App.GinMode == "" {
		f.App.GinMode = "release"
	}
	if f.API.BaseURL == "" {
		f.API.BaseURL = "http://localhost:8000/api"
	}
	if f.API.Dialect == "" {
		f.API.Dialect = "kebab"
	}
	if f.Session.CookieName == "" {
		f.Session.CookieName = "auth_token"
	}
	if f.Session.CookieTTL == "" {
		f.Session.CookieTTL = "168h" // 7d
	}
	if f.Session.CookieSecure == nil {
		secure := true
		f.Session.CookieSecure = &secure
	}
	if f.OTP.TTL == "" {
		f.OTP.TTL = "600s"
	}
	if f.OTP.TickInterval == "" {
		f.OTP.TickInterval = "1s"
	}
	if f.OTP.AttemptTTL == "" {
		f.OTP.AttemptTTL = "30m"
	}
	if f.Storage.Driver == "" {
		f.Storage.Driver = "memory"
	}
	if f.Storage.Redis.Addr == "" {
		f.Storage.Redis.Addr = "localhost:6379"
	}
	if f.Storage.Redis.Prefix == "" {
		f.Storage.Redis.Prefix = "admin:"
	}
	if f.Log.Level == "" {
		f.Log.Level = "info"
	}
	f.Routes.applyDefaults()
}

func applyEnv(f *ConfigFile) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			f.App.Port = port
		}
	}
	f.App.GinMode = env("GIN_MODE", f.App.GinMode)
	f.API.BaseURL = env("ADMIN_API_URL", f.API.BaseURL)
	f.API.Dialect = env("ADMIN_API_DIALECT", f.API.Dialect)
	f.Storage.Driver = env("STORAGE_DRIVER", f.Storage.Driver)
	f.Storage.Redis.Addr = env("REDIS_ADDR", f.Storage.Redis.Addr)
	f.Storage.Redis.Password = env("REDIS_PASSWORD", f.Storage.Redis.Password)
	f.Log.Level = env("LOG_LEVEL", f.Log.Level)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
