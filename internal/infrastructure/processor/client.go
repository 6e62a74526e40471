// Package processor provides the client for the ACH payments processor.
// Created resources (customers, funding sources, transfers) are identified
// by the canonical URL returned in the Location header.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	tokenPath         = "/token"
	authorizationPath = "/on-demand-authorizations"
	customersPath     = "/customers"
	transfersPath     = "/transfers"

	// Refresh the cached bearer token slightly before the processor
	// expires it to avoid racing the boundary.
	tokenExpiryMargin = 60 * time.Second
)

// Config holds the credentials for the processor API.
type Config struct {
	BaseURL string
	Key     string
	Secret  string
}

// Client handles communication with the payments processor.
type Client struct {
	httpClient *http.Client
	cfg        Config

	mu          sync.Mutex
	bearerToken string
	tokenExpiry time.Time
}

var _ ClientInterface = (*Client)(nil)

// NewClient creates a new processor API client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cfg: cfg,
	}
}

// AuthorizationLinks is the set of one-time authorization links returned by
// the processor. They are passed verbatim into the funding-source request.
type AuthorizationLinks map[string]Link

// Link is a single HAL-style resource link.
type Link struct {
	Href string `json:"href"`
}

type authorizationResponse struct {
	Links AuthorizationLinks `json:"_links"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ErrorResponse is the processor's error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Customer holds the profile fields required to register a processor customer.
type Customer struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// TransferAmount is the currency/value pair on a transfer request.
type TransferAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// CreateOnDemandAuthorization requests a fresh one-time authorization handle.
func (c *Client) CreateOnDemandAuthorization(ctx context.Context) (AuthorizationLinks, error) {
	resp, err := c.post(ctx, authorizationPath, struct{}{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.decodeError(resp.StatusCode, body)
	}

	var authResp authorizationResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return authResp.Links, nil
}

// CreateFundingSource registers a funding source for a customer using a
// processor token and returns its canonical URL. Exactly one remote resource
// is created per successful call; the client does not retry or deduplicate.
func (c *Client) CreateFundingSource(ctx context.Context, customerID, name, processorToken string, links AuthorizationLinks) (string, error) {
	reqBody := map[string]any{
		"name":       name,
		"plaidToken": processorToken,
	}
	if len(links) > 0 {
		reqBody["_links"] = links
	}

	path := fmt.Sprintf("%s/%s/funding-sources", customersPath, url.PathEscape(customerID))
	return c.postForLocation(ctx, path, reqBody)
}

// CreateCustomer registers a new processor customer and returns its
// canonical URL.
func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (string, error) {
	return c.postForLocation(ctx, customersPath, customer)
}

// CreateTransfer initiates a transfer between two funding sources and
// returns the transfer's canonical URL.
func (c *Client) CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount TransferAmount) (string, error) {
	reqBody := map[string]any{
		"_links": map[string]Link{
			"source":      {Href: sourceURL},
			"destination": {Href: destinationURL},
		},
		"amount": amount,
	}
	return c.postForLocation(ctx, transfersPath, reqBody)
}

// postForLocation issues a POST and returns the Location header of the
// created resource.
func (c *Client) postForLocation(ctx context.Context, path string, reqBody any) (string, error) {
	resp, err := c.post(ctx, path, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", c.decodeError(resp.StatusCode, body)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("processor response missing Location header")
	}

	return location, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody any) (*http.Response, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

// authToken returns a cached client-credentials bearer token, fetching a
// fresh one when the cache is empty or near expiry.
func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bearerToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.bearerToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.Key, c.cfg.Secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.decodeError(resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("processor token response missing access_token")
	}

	c.bearerToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpiryMargin)

	return c.bearerToken, nil
}

func (c *Client) decodeError(status int, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Code == "" {
		return fmt.Errorf("processor request failed with status %d: %s", status, string(body))
	}
	return fmt.Errorf("processor error (status %d): %s - %s", status, errResp.Code, errResp.Message)
}
