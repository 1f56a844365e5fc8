package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Eltn555/admin/domain"
)

// VaultConfig controls the token cookie written on Save
type VaultConfig struct {
	CookieName string
	CookieTTL  time.Duration
	Secure     bool
}

// DefaultVaultConfig is the 7-day, secure, strict same-site token cookie
func DefaultVaultConfig() VaultConfig {
	return VaultConfig{
		CookieName: domain.TokenCookieName,
		CookieTTL:  7 * 24 * time.Hour,
		Secure:     true,
	}
}

// Vault implements domain.SessionPersistence over a cookie store and a
// local storage. Save either writes both or leaves neither.
type Vault struct {
	cookies domain.CookieStore
	local   domain.LocalStorage
	config  VaultConfig
	now     func() time.Time
}

// NewVault creates a new session vault
func NewVault(cookies domain.CookieStore, local domain.LocalStorage, config VaultConfig) *Vault {
	if config.CookieName == "" {
		config.CookieName = domain.TokenCookieName
	}
	if config.CookieTTL <= 0 {
		config.CookieTTL = DefaultVaultConfig().CookieTTL
	}
	return &Vault{
		cookies: cookies,
		local:   local,
		config:  config,
		now:     time.Now,
	}
}

// Token implements domain.SessionPersistence. The cookie is authoritative.
func (v *Vault) Token(ctx context.Context) (string, error) {
	cookie, err := v.cookies.Get(ctx, v.config.CookieName)
	if err != nil {
		return "", fmt.Errorf("failed to read token cookie: %w", err)
	}
	if cookie == nil || strings.TrimSpace(cookie.Value) == "" {
		return "", domain.ErrNoSessionToken
	}
	return cookie.Value, nil
}

// Cookie implements domain.SessionPersistence
func (v *Vault) Cookie(ctx context.Context) (*domain.Cookie, error) {
	return v.cookies.Get(ctx, v.config.CookieName)
}

// Save implements domain.SessionPersistence
func (v *Vault) Save(ctx context.Context, token string, user *domain.User) error {
	if strings.TrimSpace(token) == "" {
		return domain.ErrNoSessionToken
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	cookie := &domain.Cookie{
		Name:     v.config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  v.now().Add(v.config.CookieTTL),
		Secure:   v.config.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	if err := v.cookies.Set(ctx, cookie); err != nil {
		return fmt.Errorf("failed to write token cookie: %w", err)
	}

	local := [][2]string{
		{domain.LocalKeyAccessToken, token},
		{domain.LocalKeyUser, string(userJSON)},
		{domain.LocalKeyIsLoggedIn, "true"},
	}
	for _, kv := range local {
		if err := v.local.SetItem(ctx, kv[0], kv[1]); err != nil {
			rollback := v.Clear(ctx)
			return fmt.Errorf("%w: %w", domain.ErrPersistPartial, errors.Join(err, rollback))
		}
	}

	return nil
}

// Clear implements domain.SessionPersistence. Both stores are always
// attempted.
func (v *Vault) Clear(ctx context.Context) error {
	var errs []error
	if err := v.cookies.Remove(ctx, v.config.CookieName); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove token cookie: %w", err))
	}
	if err := v.local.RemoveItem(ctx, domain.LocalAuthKeys...); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear local storage: %w", err))
	}
	return errors.Join(errs...)
}

var _ domain.SessionPersistence = (*Vault)(nil)
