// Package idp implements the client for the external identity provider's
// OpenID Connect and admin REST APIs (Keycloak compatible).
//
// All admin operations authenticate with a service account token kept in a
// single-slot in-memory cache that refreshes itself shortly before expiry.
// Every failure, transport or upstream, is normalized into *RequestError so
// calling services deal with exactly one error shape.
package idp

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

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
)

const (
	defaultTimeout = 30 * time.Second

	// adminTokenSafetyMargin is subtracted from the provider reported token
	// lifetime so an admin token never expires while a request carrying it is
	// still in flight. It also absorbs clock skew between us and the provider.
	adminTokenSafetyMargin = 10 * time.Second
)

// Client talks to the identity provider.
type Client struct {
	baseURL string // provider base URL without trailing slash
	realm   string

	adminClientID string
	adminUsername string
	adminPassword string

	frontendClientID     string
	frontendClientSecret string

	httpClient *http.Client

	// Admin token cache. The mutex also serializes refreshes so two callers
	// racing past an expired token trigger a single exchange.
	mu          sync.Mutex
	adminToken  string
	adminExpiry time.Time

	// OIDC discovery result, resolved lazily on first use. Only a successful
	// discovery is cached so a transient provider outage does not poison the
	// client for its remaining lifetime.
	providerMu   sync.Mutex
	oidcProvider *oidc.Provider
}

// New creates an identity provider client from the configuration.
func New(cfg *config.IdP) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL:              strings.TrimRight(cfg.BaseURL, "/"),
		realm:                cfg.Realm,
		adminClientID:        cfg.AdminClientID,
		adminUsername:        cfg.AdminUsername,
		adminPassword:        cfg.AdminPassword,
		frontendClientID:     cfg.FrontendClientID,
		frontendClientSecret: cfg.FrontendClientSecret,
		httpClient:           &http.Client{Timeout: timeout},
	}
}

// Issuer returns the realm's issuer URL used for OIDC discovery.
func (c *Client) Issuer() string {
	return fmt.Sprintf("%s/realms/%s", c.baseURL, c.realm)
}

// tokenEndpoint returns the URL of the realm's token endpoint.
func (c *Client) tokenEndpoint() string {
	return c.Issuer() + "/protocol/openid-connect/token"
}

// introspectionEndpoint returns the URL of the realm's introspection endpoint.
func (c *Client) introspectionEndpoint() string {
	return c.tokenEndpoint() + "/introspect"
}

// adminBaseURL returns the base URL of the realm's admin REST API.
func (c *Client) adminBaseURL() string {
	return fmt.Sprintf("%s/admin/realms/%s", c.baseURL, c.realm)
}

// AdminToken returns a valid admin access token, refreshing it when absent or
// expired. Within the cached lifetime no network call is made; a refresh
// stores the new token with expiry = now + (reported lifetime - safety margin).
func (c *Client) AdminToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adminToken != "" && time.Now().Before(c.adminExpiry) {
		return c.adminToken, nil
	}

	token, err := c.adminPasswordGrant(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamAuth, err)
	}

	c.adminToken = token.AccessToken
	c.adminExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - adminTokenSafetyMargin)

	log.Debug().Time("expires_at", c.adminExpiry).Msg("admin token refreshed")

	return c.adminToken, nil
}

// adminPasswordGrant performs the password grant with the service account
// credentials. Callers must hold c.mu.
func (c *Client) adminPasswordGrant(ctx context.Context) (*TokenResponse, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {c.adminClientID},
		"username":   {c.adminUsername},
		"password":   {c.adminPassword},
	}

	var token TokenResponse
	if err := c.postForm(ctx, "AdminToken", c.tokenEndpoint(), form, &token); err != nil {
		return nil, err
	}

	return &token, nil
}

// postForm issues an urlencoded POST and decodes the JSON response into out.
func (c *Client) postForm(ctx context.Context, op, rawURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &RequestError{Op: op, Body: err.Error()}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.send(req, op, out)
}

// do issues an authorized JSON request against the admin REST API and decodes
// the response into out (out may be nil for operations without a body).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	token, err := c.AdminToken(ctx)
	if err != nil {
		return err
	}

	return c.doWithToken(ctx, op, method, c.adminBaseURL()+path, token, query, body, out)
}

// doWithToken issues a bearer-authorized JSON request against an absolute URL.
func (c *Client) doWithToken(ctx context.Context, op, method, rawURL, token string, query url.Values, body, out any) error {
	var bodyReader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Body: err.Error()}
		}

		bodyReader = bytes.NewReader(data)
	}

	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return &RequestError{Op: op, Body: err.Error()}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, op, out)
}

// send executes the request and normalizes every failure into *RequestError.
func (c *Client) send(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: op, Body: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Op: op, Status: resp.StatusCode, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &RequestError{Op: op, Status: resp.StatusCode, Body: fmt.Sprintf("undecodable response: %v", err)}
		}
	}

	return nil
}

// CheckReady probes the provider by requesting an admin token.
// Used by the readiness endpoint.
func (c *Client) CheckReady(ctx context.Context) error {
	_, err := c.AdminToken(ctx)

	return err
}
