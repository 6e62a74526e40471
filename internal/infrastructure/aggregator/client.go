// Package aggregator provides the client for the bank-data aggregation API.
// Every credential exchanged here is a handle scoped to a narrower purpose:
// a single-use public token becomes a durable access token, which in turn
// mints short-lived processor tokens.
package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout      = 30 * time.Second
	exchangeTokenPath   = "/item/public_token/exchange"
	accountsPath        = "/accounts/get"
	processorTokenPath  = "/processor/token/create"
	createLinkTokenPath = "/link/token/create"
)

// Config holds the credentials for the aggregator API.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// Client handles communication with the aggregation provider.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

var _ ClientInterface = (*Client)(nil)

// NewClient creates a new aggregator API client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cfg: cfg,
	}
}

// ExchangeResult is the durable credential pair returned by a token exchange.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// Account represents one bank account exposed by the aggregator.
type Account struct {
	AccountID string   `json:"account_id"`
	Name      string   `json:"name"`
	Mask      string   `json:"mask"`
	Type      string   `json:"type"`
	Subtype   string   `json:"subtype"`
	Balances  Balances `json:"balances"`
}

// Balances carries the aggregator's view of an account's balances.
type Balances struct {
	Available *float64 `json:"available"`
	Current   *float64 `json:"current"`
	Currency  string   `json:"iso_currency_code"`
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type processorTokenResponse struct {
	ProcessorToken string `json:"processor_token"`
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

// ErrorResponse is the aggregator's error envelope.
type ErrorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// LinkTokenUser identifies the end user when requesting a link token.
type LinkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
	Name         string `json:"legal_name"`
}

// ExchangePublicToken trades a single-use public token for a durable access
// token and item identifier. The public token is consumed by this call even
// when a later step fails, so callers must never retry with the same token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	body := map[string]string{"public_token": publicToken}

	var result ExchangeResult
	if err := c.post(ctx, exchangeTokenPath, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccounts fetches the account list for an access token.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	body := map[string]string{"access_token": accessToken}

	var result accountsResponse
	if err := c.post(ctx, accountsPath, body, &result); err != nil {
		return nil, err
	}
	return result.Accounts, nil
}

// CreateProcessorToken requests a processor-scoped token bound to the given
// access token and account.
func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	body := map[string]string{
		"access_token": accessToken,
		"account_id":   accountID,
		"processor":    processor,
	}

	var result processorTokenResponse
	if err := c.post(ctx, processorTokenPath, body, &result); err != nil {
		return "", err
	}
	return result.ProcessorToken, nil
}

// CreateLinkToken requests a link token for the client-side linking widget.
func (c *Client) CreateLinkToken(ctx context.Context, user LinkTokenUser) (string, error) {
	body := map[string]any{
		"user":          user,
		"client_name":   "Horizon",
		"products":      []string{"auth"},
		"language":      "en",
		"country_codes": []string{"US"},
	}

	var result linkTokenResponse
	if err := c.post(ctx, createLinkTokenPath, body, &result); err != nil {
		return "", err
	}
	return result.LinkToken, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody any, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", c.cfg.ClientID)
	req.Header.Set("Client-Secret", c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return fmt.Errorf("aggregator request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("aggregator error (status %d): %s - %s", resp.StatusCode, errResp.ErrorCode, errResp.ErrorMessage)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
