package idp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListUsers returns the realm's users matching the query.
func (c *Client) ListUsers(ctx context.Context, q UserQuery) ([]User, error) {
	values := url.Values{}

	if q.Search != "" {
		values.Set("search", q.Search)
	}

	if q.Username != "" {
		values.Set("username", q.Username)
	}

	if q.Enabled != nil {
		values.Set("enabled", strconv.FormatBool(*q.Enabled))
	}

	if q.Max > 0 {
		values.Set("first", strconv.Itoa(q.First))
		values.Set("max", strconv.Itoa(q.Max))
	}

	if q.Brief {
		values.Set("briefRepresentation", "true")
	}

	var users []User
	if err := c.do(ctx, "ListUsers", http.MethodGet, "/users", values, nil, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser returns the user with the given provider id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.do(ctx, "GetUser", http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UsersByUsername returns the users matching the exact username.
// Used for the uniqueness check before creating a user.
func (c *Client) UsersByUsername(ctx context.Context, username string) ([]User, error) {
	return c.ListUsers(ctx, UserQuery{Username: username})
}

// CreateUserRecord creates a user in the provider.
func (c *Client) CreateUserRecord(ctx context.Context, user CreateUser) error {
	return c.do(ctx, "CreateUser", http.MethodPost, "/users", nil, user, nil)
}

// UpdateUser pushes a partial update to the provider.
func (c *Client) UpdateUser(ctx context.Context, id string, update UserUpdate) error {
	return c.do(ctx, "UpdateUser", http.MethodPut, "/users/"+url.PathEscape(id), nil, update, nil)
}

// ResetPassword sets a new password for the user.
func (c *Client) ResetPassword(ctx context.Context, id, password string, temporary bool) error {
	cred := Credential{Type: "password", Value: password, Temporary: temporary}

	return c.do(ctx, "ResetPassword", http.MethodPut, "/users/"+url.PathEscape(id)+"/reset-password", nil, cred, nil)
}

// SetEnabled flips the user's enabled flag, recording who did it.
func (c *Client) SetEnabled(ctx context.Context, id string, enabled bool, updater string) error {
	update := UserUpdate{
		Enabled:    &enabled,
		Attributes: map[string][]string{"updated_by": {updater}},
	}

	return c.do(ctx, "SetEnabled", http.MethodPut, "/users/"+url.PathEscape(id), nil, update, nil)
}

// DeleteUser removes the user from the provider.
// Used by the create-user compensation step.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "DeleteUser", http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}

// RegenerateClientSecret rotates and returns the secret of the given client.
func (c *Client) RegenerateClientSecret(ctx context.Context, clientID string) (*ClientSecret, error) {
	var secret ClientSecret

	err := c.do(ctx, "RegenerateClientSecret", http.MethodPost,
		"/clients/"+url.PathEscape(clientID)+"/client-secret", nil, nil, &secret)
	if err != nil {
		return nil, err
	}

	return &secret, nil
}
