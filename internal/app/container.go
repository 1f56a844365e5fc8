package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/config"
	httpx "github.com/Eltn555/admin/internal/http"
	"github.com/Eltn555/admin/internal/http/handlers"
	"github.com/Eltn555/admin/internal/http/middleware"
	"github.com/Eltn555/admin/internal/infrastructure/apiclient"
	"github.com/Eltn555/admin/internal/infrastructure/auth"
	"github.com/Eltn555/admin/internal/infrastructure/database"
	"github.com/Eltn555/admin/internal/infrastructure/persistence"
	"github.com/Eltn555/admin/internal/infrastructure/storage"
	"github.com/Eltn555/admin/internal/logging"
	"github.com/Eltn555/admin/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	Redis     *database.RedisClient
	Local     domain.LocalStorage
	Cookies   domain.CookieStore
	Vault     *persistence.Vault
	APIClient *apiclient.Client

	// Services
	Transport domain.AuthTransport
	Store     *services.SessionStoreImpl
	Flows     *services.LoginFlowRegistry
	Inspector domain.TokenInspector

	Router *gin.Engine
}

// NewContainer creates and initializes all dependencies. A nil logger is
// built from the config.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	container := &Container{Config: cfg, Logger: logger}

	if err := container.initLogger(); err != nil {
		return nil, err
	}
	if err := container.initStorage(); err != nil {
		return nil, err
	}
	container.initServices()
	container.initRouter()

	return container, nil
}

func (c *Container) initLogger() error {
	if c.Logger != nil {
		return nil
	}
	logger, err := logging.New(c.Config.LogLevel, c.Config.LogDevelopment)
	if err != nil {
		return err
	}
	c.Logger = logger
	return nil
}

func (c *Container) initStorage() error {
	switch c.Config.StorageDriver {
	case "redis":
		c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
		if err := c.Redis.Ping(context.Background(), 5*time.Second); err != nil {
			return fmt.Errorf("failed to connect storage: %w", err)
		}
		c.Local = storage.NewRedisLocalStorage(c.Redis.Client, c.Config.RedisPrefix)
		c.Cookies = storage.NewRedisCookieStore(c.Redis.Client, c.Config.RedisPrefix)
	default:
		c.Local = storage.NewMemoryLocalStorage()
		c.Cookies = storage.NewMemoryCookieStore()
	}

	c.Vault = persistence.NewVault(c.Cookies, c.Local, persistence.VaultConfig{
		CookieName: c.Config.CookieName,
		CookieTTL:  c.Config.CookieTTL,
		Secure:     c.Config.CookieSecure,
	})
	return nil
}

func (c *Container) initServices() {
	c.APIClient = apiclient.NewClient(c.Config.APIBaseURL, nil, c.Local, c.Logger)
	c.Transport = services.NewAuthTransport(c.APIClient, c.Local, services.EndpointsFor(c.Config.APIDialect), c.Logger)
	c.Store = services.NewSessionStore(c.Transport, c.Vault, logging.NewEventLogger(c.Logger), c.Logger)
	c.Flows = services.NewLoginFlowRegistry(c.Store, services.LoginFlowConfig{
		CodeTTL:      c.Config.OTP_TTL,
		TickInterval: c.Config.OTP_TickInterval,
	}, c.Config.OTP_AttemptTTL, c.Logger)
	c.Inspector = auth.NewJWTInspector()
}

func (c *Container) initRouter() {
	if c.Config.GinMode != "" {
		gin.SetMode(c.Config.GinMode)
	}
	cookie := handlers.CookieOptions{Name: c.Config.CookieName, Secure: c.Config.CookieSecure}
	loginPath := c.Config.Routes.LoginPath

	lh := handlers.NewLoginHandlers(c.Flows, c.Store, c.Vault, cookie, loginPath, c.Logger)
	dh := handlers.NewDashboardHandlers(c.Store, c.Vault, c.Inspector, cookie, loginPath, c.Logger)
	proxy := handlers.NewAPIProxy(c.APIClient, c.Config.CookieName, c.Logger)
	guard := middleware.NewRouteGuard(c.Config.Routes, c.Config.CookieName)

	c.Router = httpx.BuildRouter(lh, dh, proxy, guard, c.Logger)
}

// Close stops background work and closes all connections
func (c *Container) Close() error {
	if c.Flows != nil {
		c.Flows.Stop()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return err
		}
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return nil
}
