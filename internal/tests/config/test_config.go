package config

import (
	"testing"

	"github.com/Eltn555/admin/internal/config"
)

// NewTestConfig builds a panel configuration for end-to-end tests pointed
// at backendURL. A non-empty redisAddr selects the Redis storage driver.
func NewTestConfig(t *testing.T, backendURL, redisAddr string) *config.Config {
	t.Helper()

	insecure := false
	file := &config.ConfigFile{
		App:     config.AppConfig{GinMode: "test"},
		API:     config.APIConfig{BaseURL: backendURL},
		Session: config.SessionConfig{CookieSecure: &insecure},
		Log:     config.LogConfig{Level: "error"},
	}
	if redisAddr != "" {
		file.Storage = config.StorageConfig{
			Driver: "redis",
			Redis:  config.RedisConfig{Addr: redisAddr, Prefix: "e2e:"},
		}
	}

	cfg, err := config.FromFile(file)
	if err != nil {
		t.Fatalf("Failed to build test configuration: %v", err)
	}
	validateTestConfig(t, cfg)
	return cfg
}

// validateTestConfig ensures the configuration points at test resources
func validateTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	if cfg.APIBaseURL == "" {
		t.Fatal("API base URL is required for E2E tests")
	}
	if cfg.CookieSecure {
		t.Fatal("E2E tests run over plain HTTP and need an insecure cookie")
	}
}
