package idp

import (
	"context"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// oauthConfig builds the oauth2 configuration for the frontend client.
func (c *Client) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.frontendClientID,
		ClientSecret: c.frontendClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.Issuer() + "/protocol/openid-connect/auth",
			TokenURL: c.tokenEndpoint(),
		},
	}
}

// withHTTPClient pins the client's HTTP client (and thus its timeout) onto
// the context for the oauth2 and oidc libraries.
func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// ExchangeCode redeems an authorization code at the token endpoint.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	token, err := c.oauthConfig(redirectURI).Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return nil, normalizeOAuthError("ExchangeCode", err)
	}

	return tokenResponseFrom(token), nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	source := c.oauthConfig("").TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return nil, normalizeOAuthError("Refresh", err)
	}

	return tokenResponseFrom(token), nil
}

// tokenResponseFrom maps an oauth2 token back onto the wire representation
// handed to clients, including the raw extra fields the library keeps aside.
func tokenResponseFrom(token *oauth2.Token) *TokenResponse {
	resp := &TokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresIn:    int(token.ExpiresIn),
	}

	if idToken, ok := token.Extra("id_token").(string); ok {
		resp.IDToken = idToken
	}

	if sessionState, ok := token.Extra("session_state").(string); ok {
		resp.SessionState = sessionState
	}

	if scope, ok := token.Extra("scope").(string); ok {
		resp.Scope = scope
	}

	if resp.ExpiresIn == 0 {
		if expires, ok := token.Extra("expires_in").(float64); ok {
			resp.ExpiresIn = int(expires)
		}
	}

	if refreshExpires, ok := token.Extra("refresh_expires_in").(float64); ok {
		resp.RefreshExpiresIn = int(refreshExpires)
	}

	return resp
}

// normalizeOAuthError converts oauth2 retrieve errors into *RequestError so
// session operations fail the same way admin operations do.
func normalizeOAuthError(op string, err error) *RequestError {
	if retrieveErr, ok := err.(*oauth2.RetrieveError); ok {
		return &RequestError{Op: op, Status: retrieveErr.Response.StatusCode, Body: string(retrieveErr.Body)}
	}

	return &RequestError{Op: op, Body: err.Error()}
}

// Introspect asks the provider whether an access token is still active and
// returns its claims.
func (c *Client) Introspect(ctx context.Context, token string) (*Introspection, error) {
	form := url.Values{
		"token":         {token},
		"client_id":     {c.frontendClientID},
		"client_secret": {c.frontendClientSecret},
	}

	var result Introspection
	if err := c.postForm(ctx, "Introspect", c.introspectionEndpoint(), form, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// provider performs OIDC discovery and caches the result for the client's
// lifetime. Failures are not cached, the next call retries discovery.
func (c *Client) provider(ctx context.Context) (*oidc.Provider, error) {
	c.providerMu.Lock()
	defer c.providerMu.Unlock()

	if c.oidcProvider != nil {
		return c.oidcProvider, nil
	}

	provider, err := oidc.NewProvider(c.withHTTPClient(ctx), c.Issuer())
	if err != nil {
		return nil, err
	}

	c.oidcProvider = provider

	return provider, nil
}

// UserInfo fetches the userinfo claims for an access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	provider, err := c.provider(ctx)
	if err != nil {
		return nil, &RequestError{Op: "UserInfo", Body: err.Error()}
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	raw, err := provider.UserInfo(c.withHTTPClient(ctx), source)
	if err != nil {
		return nil, &RequestError{Op: "UserInfo", Body: err.Error()}
	}

	info := &UserInfo{Sub: raw.Subject, Email: raw.Email}
	if err := raw.Claims(info); err != nil {
		return nil, &RequestError{Op: "UserInfo", Body: err.Error()}
	}

	return info, nil
}
