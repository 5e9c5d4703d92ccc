package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "github.com/clipask/askdoc-service/internal/domain/errors"
)

// ClientConfig holds the configuration for the remote API client.
type ClientConfig struct {
	// APIBaseURL is the base URL for regular API calls.
	APIBaseURL string
	// UploadBaseURL is the base URL for file uploads (vendors commonly
	// serve uploads from a separate host).
	UploadBaseURL string
	// OAuthBaseURL is the base URL for the token endpoint.
	OAuthBaseURL string
	// ClientID and ClientSecret identify this application to the vendor.
	ClientID     string
	ClientSecret string
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// HTTPClient overrides the default HTTP client (for testing).
	HTTPClient *http.Client
}

// Client talks to the remote vendor API.
type Client struct {
	apiBaseURL    string
	uploadBaseURL string
	oauthBaseURL  string
	clientID      string
	clientSecret  string
	httpClient    *http.Client
}

// NewClient creates a new remote API client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL is required")
	}

	uploadBaseURL := cfg.UploadBaseURL
	if uploadBaseURL == "" {
		uploadBaseURL = cfg.APIBaseURL
	}
	oauthBaseURL := cfg.OAuthBaseURL
	if oauthBaseURL == "" {
		oauthBaseURL = cfg.APIBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiBaseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		uploadBaseURL: strings.TrimRight(uploadBaseURL, "/"),
		oauthBaseURL:  strings.TrimRight(oauthBaseURL, "/"),
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		httpClient:    httpClient,
	}, nil
}

// ExchangeAuthorizationCode performs the one-shot authorization-code grant.
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"redirect_uri":  {redirectURI},
	}
	return c.tokenGrant(ctx, form)
}

// RefreshToken exchanges a refresh token for a new token set.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	return c.tokenGrant(ctx, form)
}

// tokenGrant posts a form-encoded grant to the token endpoint. Any
// non-success status fails with an AuthError carrying the response body.
func (c *Client) tokenGrant(ctx context.Context, form url.Values) (*TokenResponse, error) {
	endpoint := c.oauthBaseURL + "/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewAuthError("token endpoint unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domainerrors.DomainError{
			Code:       domainerrors.ErrCodeAuth,
			Message:    fmt.Sprintf("token exchange failed with status %d", resp.StatusCode),
			Details:    string(body),
			HTTPStatus: http.StatusUnauthorized,
		}
	}

	var tokens TokenResponse
	if err := decodeJSON(body, &tokens); err != nil {
		return nil, domainerrors.NewAuthError("malformed token response", err)
	}
	if tokens.AccessToken == "" {
		return nil, domainerrors.NewAuthError("token response missing access token", nil)
	}

	return &tokens, nil
}

// do executes an authorized API request and returns the response. The caller
// owns closing the body.
func (c *Client) do(ctx context.Context, method, rawurl, accessToken, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

// readBody drains and returns the response body, tolerating read errors by
// returning what was read; it is used for error details.
func readBody(resp *http.Response) string {
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
