package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/config"
	"github.com/Eltn555/admin/internal/infrastructure/database"
	"github.com/Eltn555/admin/internal/infrastructure/persistence"
	"github.com/Eltn555/admin/internal/infrastructure/storage"
)

// Connectivity check for the Redis session storage
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.StorageDriver != "redis" {
		fmt.Printf("Storage driver is %q, nothing to check\n", cfg.StorageDriver)
		return
	}

	fmt.Println("Session Storage Check")
	fmt.Println("=====================")
	fmt.Printf("Connecting to: %s (db %d, prefix %q)\n", cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()

	ctx := context.Background()
	if err := rdb.Ping(ctx, 5*time.Second); err != nil {
		log.Fatalf("Failed to ping redis: %v", err)
	}
	fmt.Println("✓ Redis connection successful")

	local := storage.NewRedisLocalStorage(rdb.Client, cfg.RedisPrefix)
	cookies := storage.NewRedisCookieStore(rdb.Client, cfg.RedisPrefix)
	vault := persistence.NewVault(cookies, local, persistence.VaultConfig{
		CookieName: cfg.CookieName,
		CookieTTL:  cfg.CookieTTL,
		Secure:     cfg.CookieSecure,
	})

	cookie, err := vault.Cookie(ctx)
	switch {
	case err != nil:
		log.Fatalf("Failed to read session cookie: %v", err)
	case cookie == nil:
		fmt.Println("✓ No persisted session")
		return
	}
	fmt.Printf("✓ Persisted session cookie expires %s\n", cookie.Expires.UTC().Format(time.RFC3339))

	for _, key := range domain.LocalAuthKeys {
		_, ok, err := local.GetItem(ctx, key)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", key, err)
		}
		fmt.Printf("  - %s present: %v\n", key, ok)
	}
}
