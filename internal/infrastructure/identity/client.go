// Package identity provides the client for the backend-as-a-service
// identity provider. Credentials and sessions live entirely in the
// provider; this service only carries the opaque session secret.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 15 * time.Second

	accountPath  = "/account"
	sessionsPath = "/account/sessions/email"
)

// ErrUnauthorized is returned when the provider rejects the session secret.
var ErrUnauthorized = errors.New("identity session unauthorized")

// Config holds the credentials for the identity provider.
type Config struct {
	Endpoint string
	Project  string
	APIKey   string
}

// Client handles communication with the identity provider.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

var _ ClientInterface = (*Client)(nil)

// NewClient creates a new identity provider client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cfg: cfg,
	}
}

// Account is a provider-side user account.
type Account struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is a provider-side session; Secret is the opaque credential the
// browser carries in an HttpOnly cookie.
type Session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CreateAccount registers a new account with the provider.
func (c *Client) CreateAccount(ctx context.Context, id, email, password, name string) (*Account, error) {
	body := map[string]string{
		"userId":   id,
		"email":    email,
		"password": password,
		"name":     name,
	}

	var account Account
	if err := c.do(ctx, http.MethodPost, accountPath, "", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateEmailPasswordSession authenticates a user and returns the session,
// including its secret.
func (c *Client) CreateEmailPasswordSession(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, sessionsPath, "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetAccount resolves the account that owns the given session secret.
// Returns ErrUnauthorized when the secret is invalid or expired.
func (c *Client) GetAccount(ctx context.Context, sessionSecret string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, accountPath, sessionSecret, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteSession invalidates the current session at the provider.
func (c *Client) DeleteSession(ctx context.Context, sessionSecret string) error {
	return c.do(ctx, http.MethodDelete, "/account/sessions/current", sessionSecret, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, sessionSecret string, reqBody, out any) error {
	var reader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project", c.cfg.Project)
	if sessionSecret != "" {
		req.Header.Set("X-Session", sessionSecret)
	} else {
		req.Header.Set("X-Key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return fmt.Errorf("identity request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("identity error (status %d): %s - %s", resp.StatusCode, errResp.Type, errResp.Message)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
