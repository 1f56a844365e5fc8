package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/logging"
)

// Client signs every outbound backend request with the bearer token kept
// in local storage
type Client struct {
	baseURL string
	http    *http.Client
	local   domain.LocalStorage
	logger  *zap.Logger
}

// NewClient creates a new backend client. A nil httpClient uses
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, local domain.LocalStorage, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		local:   local,
		logger:  logging.OrNop(logger).Named("apiclient"),
	}
}

// BaseURL returns the backend base URL without trailing slash
func (c *Client) BaseURL() string { return c.baseURL }

// TokenFromHeader extracts the token of a bearer Authorization header.
// "undefined" and "null" tokens read as empty.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return cleanToken(parts[1])
}

func cleanToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "undefined" || token == "null" {
		return ""
	}
	return token
}

// AccessToken reads the persisted token; read failures yield ""
func (c *Client) AccessToken(ctx context.Context) string {
	token, ok, err := c.local.GetItem(ctx, domain.LocalKeyAccessToken)
	if err != nil {
		c.logger.Warn("read access token", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return cleanToken(token)
}

// Do sends req. An explicit non-empty bearer token is kept; otherwise the
// persisted token is injected, even when empty.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if TokenFromHeader(req.Header.Get("Authorization")) == "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken(ctx))
	}
	return c.http.Do(req)
}

// JSON sends body as JSON to path and decodes a 2xx response into out.
// Failures are returned as *domain.TransportError.
func (c *Client) JSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewStatusError(resp.StatusCode, errorMessage(data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.TransportError{
			StatusCode: resp.StatusCode,
			Message:    "Invalid response from server",
			Err:        err,
		}
	}
	return nil
}

// Forward sends a raw request to path on the backend, used by the /api
// proxy. The request is signed with token as given, or an empty bearer,
// and never with the persisted token. The caller closes the response body.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, header http.Header, token string, body io.Reader) (*http.Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vals := range header {
		if hopHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+cleanToken(token))
	return c.http.Do(req)
}

var hopHeaders = map[string]bool{
	"Authorization":       true,
	"Connection":          true,
	"Cookie":              true,
	"Keep-Alive":          true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
