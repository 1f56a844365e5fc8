package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/mocks"
)

func newTestVault(cookies domain.CookieStore, local domain.LocalStorage) (*Vault, time.Time) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	v := NewVault(cookies, local, DefaultVaultConfig())
	v.now = func() time.Time { return now }
	return v, now
}

func TestVault_Save(t *testing.T) {
	cookies := mocks.NewMockCookieStore()
	local := mocks.NewMockLocalStorage()
	vault, now := newTestVault(cookies, local)
	ctx := context.Background()
	user := &domain.User{ID: "u-1", Phone: "901234567"}

	require.NoError(t, vault.Save(ctx, "tok-1", user))

	cookie, ok := cookies.Cookies[domain.TokenCookieName]
	require.True(t, ok, "token cookie should be written")
	assert.Equal(t, "tok-1", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, now.Add(7*24*time.Hour), cookie.Expires)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	assert.Equal(t, "tok-1", local.Items[domain.LocalKeyAccessToken])
	assert.Equal(t, "true", local.Items[domain.LocalKeyIsLoggedIn])

	var cached domain.User
	require.NoError(t, json.Unmarshal([]byte(local.Items[domain.LocalKeyUser]), &cached))
	assert.Equal(t, *user, cached)

	token, err := vault.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestVault_SaveRejectsEmptyToken(t *testing.T) {
	cookies := mocks.NewMockCookieStore()
	local := mocks.NewMockLocalStorage()
	vault, _ := newTestVault(cookies, local)

	err := vault.Save(context.Background(), "  ", &domain.User{ID: "1"})
	assert.ErrorIs(t, err, domain.ErrNoSessionToken)
	assert.Empty(t, cookies.Cookies)
	assert.Empty(t, local.Items)
}

func TestVault_SavePartialFailureRollsBack(t *testing.T) {
	tests := []struct {
		name    string
		failKey string
	}{
		{name: "access token write fails", failKey: domain.LocalKeyAccessToken},
		{name: "user write fails", failKey: domain.LocalKeyUser},
		{name: "login flag write fails", failKey: domain.LocalKeyIsLoggedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := mocks.NewMockCookieStore()
			local := mocks.NewMockLocalStorage()
			local.SetItemFunc = func(ctx context.Context, key, value string) error {
				if key == tt.failKey {
					return errors.New("quota exceeded")
				}
				local.Items[key] = value
				return nil
			}
			vault, _ := newTestVault(cookies, local)
			ctx := context.Background()

			err := vault.Save(ctx, "tok", &domain.User{ID: "1", Phone: "901234567"})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrPersistPartial)
			assert.Contains(t, err.Error(), "quota exceeded")

			assert.Empty(t, cookies.Cookies, "cookie must be rolled back")
			for _, k := range domain.LocalAuthKeys {
				assert.False(t, local.Has(k), "local key %s must be rolled back", k)
			}

			_, err = vault.Token(ctx)
			assert.ErrorIs(t, err, domain.ErrNoSessionToken)
		})
	}
}

func TestVault_SaveCookieFailure(t *testing.T) {
	cookies := mocks.NewMockCookieStore()
	cookies.SetFunc = func(ctx context.Context, cookie *domain.Cookie) error {
		return errors.New("redis down")
	}
	local := mocks.NewMockLocalStorage()
	vault, _ := newTestVault(cookies, local)

	err := vault.Save(context.Background(), "tok", &domain.User{ID: "1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPersistPartial, "nothing was written")
	assert.Empty(t, local.Items)
}

func TestVault_Clear(t *testing.T) {
	cookies := mocks.NewMockCookieStore()
	local := mocks.NewMockLocalStorage()
	vault, _ := newTestVault(cookies, local)
	ctx := context.Background()

	require.NoError(t, vault.Save(ctx, "tok", &domain.User{ID: "1", Phone: "901234567"}))
	require.NoError(t, vault.Clear(ctx))

	assert.Empty(t, cookies.Cookies)
	assert.Empty(t, local.Items)
}

func TestVault_ClearAttemptsBothStores(t *testing.T) {
	cookies := mocks.NewMockCookieStore()
	cookies.RemoveFunc = func(ctx context.Context, name string) error {
		return errors.New("cookie backend down")
	}
	local := mocks.NewMockLocalStorage()
	local.Items[domain.LocalKeyAccessToken] = "tok"
	vault, _ := newTestVault(cookies, local)

	err := vault.Clear(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cookie backend down")
	assert.False(t, local.Has(domain.LocalKeyAccessToken), "local storage cleared despite cookie failure")
}

func TestVault_Token(t *testing.T) {
	tests := []struct {
		name      string
		cookie    *domain.Cookie
		wantToken string
		wantErr   error
	}{
		{name: "present", cookie: &domain.Cookie{Name: domain.TokenCookieName, Value: "abc"}, wantToken: "abc"},
		{name: "absent", wantErr: domain.ErrNoSessionToken},
		{name: "blank value", cookie: &domain.Cookie{Name: domain.TokenCookieName, Value: " "}, wantErr: domain.ErrNoSessionToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := mocks.NewMockCookieStore()
			if tt.cookie != nil {
				cookies.Cookies[tt.cookie.Name] = *tt.cookie
			}
			vault, _ := newTestVault(cookies, mocks.NewMockLocalStorage())

			token, err := vault.Token(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
