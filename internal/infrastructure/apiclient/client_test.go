package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/mocks"
)

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{header: "", expected: ""},
		{header: "Bearer abc", expected: "abc"},
		{header: "  Bearer   abc  ", expected: "abc"},
		{header: "Bearer", expected: ""},
		{header: "Bearer ", expected: ""},
		{header: "Bearer undefined", expected: ""},
		{header: "Bearer null", expected: ""},
		{header: "Token xyz", expected: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenFromHeader(tt.header))
		})
	}
}

func TestClient_Do_AuthorizationHeader(t *testing.T) {
	tests := []struct {
		name           string
		storedToken    string
		hasStored      bool
		explicitHeader string
		expectedHeader string
	}{
		{
			name:           "injects persisted token",
			storedToken:    "persisted",
			hasStored:      true,
			expectedHeader: "Bearer persisted",
		},
		{
			name:           "explicit header wins",
			storedToken:    "persisted",
			hasStored:      true,
			explicitHeader: "Bearer explicit",
			expectedHeader: "Bearer explicit",
		},
		{
			name:           "empty bearer is replaced",
			storedToken:    "persisted",
			hasStored:      true,
			explicitHeader: "Bearer ",
			expectedHeader: "Bearer persisted",
		},
		{
			name:           "null bearer is replaced",
			storedToken:    "persisted",
			hasStored:      true,
			explicitHeader: "Bearer null",
			expectedHeader: "Bearer persisted",
		},
		{
			name:           "unauthenticated sends empty bearer",
			expectedHeader: "Bearer ",
		},
		{
			name:           "stored undefined reads as empty",
			storedToken:    "undefined",
			hasStored:      true,
			expectedHeader: "Bearer ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer srv.Close()

			local := mocks.NewMockLocalStorage()
			if tt.hasStored {
				local.Items[domain.LocalKeyAccessToken] = tt.storedToken
			}
			client := NewClient(srv.URL, srv.Client(), local, nil)

			req, err := http.NewRequest(http.MethodGet, srv.URL+"/auth/validate-token", nil)
			require.NoError(t, err)
			if tt.explicitHeader != "" {
				req.Header.Set("Authorization", tt.explicitHeader)
			}

			resp, err := client.Do(context.Background(), req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.expectedHeader, got)
		})
	}
}

func TestClient_Do_ReadsStorageEveryCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reads := 0
	local := mocks.NewMockLocalStorage()
	local.GetItemFunc = func(ctx context.Context, key string) (string, bool, error) {
		reads++
		return "tok", true, nil
	}
	client := NewClient(srv.URL, srv.Client(), local, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, client.JSON(context.Background(), http.MethodGet, "/ping", nil, nil))
	}
	assert.Equal(t, 3, reads)
}

func TestClient_Do_StorageErrorSendsEmptyBearer(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	local := mocks.NewMockLocalStorage()
	local.GetItemFunc = func(ctx context.Context, key string) (string, bool, error) {
		return "", false, errors.New("redis down")
	}
	client := NewClient(srv.URL, srv.Client(), local, nil)

	require.NoError(t, client.JSON(context.Background(), http.MethodGet, "/ping", nil, nil))
	assert.Equal(t, "Bearer ", got)
}

func TestClient_JSON(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantStatus  int
		wantMessage string
		wantOut     string
	}{
		{name: "success decodes body", status: http.StatusOK, body: `{"phoneNumber":"901234567"}`, wantOut: "901234567"},
		{name: "empty success body", status: http.StatusOK, body: ``},
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"Invalid phone number"}`, wantErr: true, wantStatus: 400, wantMessage: "Invalid phone number"},
		{name: "error field", status: http.StatusUnauthorized, body: `{"error":"Token expired"}`, wantErr: true, wantStatus: 401, wantMessage: "Token expired"},
		{name: "no message", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: true, wantStatus: 502, wantMessage: "Request failed with status code 502"},
		{name: "malformed success body", status: http.StatusOK, body: `{"phoneNumber":`, wantErr: true, wantStatus: 200, wantMessage: "Invalid response from server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]string
			var gotContentType string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotContentType = r.Header.Get("Content-Type")
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := NewClient(srv.URL+"/", srv.Client(), mocks.NewMockLocalStorage(), nil)
			var out domain.SendOTPResult
			err := client.JSON(context.Background(), http.MethodPost, "/auth/send-otp", map[string]string{"phoneNumber": "901234567"}, &out)

			assert.Equal(t, "application/json", gotContentType)
			assert.Equal(t, "901234567", gotBody["phoneNumber"])

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOut, out.PhoneNumber)
				return
			}

			var te *domain.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.wantStatus, te.StatusCode)
			assert.Equal(t, tt.wantMessage, te.Error())
		})
	}
}

func TestClient_JSON_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClient(addr, nil, mocks.NewMockLocalStorage(), nil)
	err := client.JSON(context.Background(), http.MethodGet, "/auth/validate-token", nil, nil)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.StatusCode)
	assert.NotEmpty(t, te.Error())
	assert.NotErrorIs(t, err, domain.ErrSessionInvalid)
}

func TestClient_Forward(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotCookie, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotCookie = r.Header.Get("Cookie")
		gotCustom = r.Header.Get("X-Request-Id")
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	local := mocks.NewMockLocalStorage()
	local.Items[domain.LocalKeyAccessToken] = "tok"
	client := NewClient(srv.URL+"/api", srv.Client(), local, nil)

	header := http.Header{}
	header.Set("X-Request-Id", "req-1")
	header.Set("Cookie", "auth_token=browser-tok")
	header.Set("Authorization", "Bearer spoofed")
	resp, err := client.Forward(context.Background(), http.MethodPost, "/products", url.Values{"page": {"2"}}, header, "browser-tok", strings.NewReader(`{"name":"mug"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"name":"mug"}`, string(body))
	assert.Equal(t, "/api/products", gotPath)
	assert.Equal(t, "page=2", gotQuery)
	assert.Equal(t, "Bearer browser-tok", gotAuth)
	assert.Empty(t, gotCookie, "browser cookies are not forwarded")
	assert.Equal(t, "req-1", gotCustom)
}

func TestClient_ForwardNeverUsesPersistedToken(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	local := mocks.NewMockLocalStorage()
	local.Items[domain.LocalKeyAccessToken] = "operator-token"
	client := NewClient(srv.URL+"/api", srv.Client(), local, nil)

	for _, token := range []string{"", "undefined", "  "} {
		resp, err := client.Forward(context.Background(), http.MethodGet, "/products", nil, http.Header{}, token, nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	// the trailing space of "Bearer " is trimmed on the wire
	assert.Equal(t, []string{"Bearer", "Bearer", "Bearer"}, gotAuth)
}
