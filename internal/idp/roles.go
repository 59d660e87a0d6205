package idp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListRoles returns the realm's roles matching the query.
func (c *Client) ListRoles(ctx context.Context, q RoleQuery) ([]Role, error) {
	values := url.Values{}

	if q.Search != "" {
		values.Set("search", q.Search)
	}

	if q.Max > 0 {
		values.Set("first", strconv.Itoa(q.First))
		values.Set("max", strconv.Itoa(q.Max))
	}

	if q.Brief {
		values.Set("briefRepresentation", "true")
	}

	var roles []Role
	if err := c.do(ctx, "ListRoles", http.MethodGet, "/roles", values, nil, &roles); err != nil {
		return nil, err
	}

	return roles, nil
}

// GetRoleByID returns the realm role with the given provider id.
func (c *Client) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	var role Role
	if err := c.do(ctx, "GetRoleByID", http.MethodGet, "/roles-by-id/"+url.PathEscape(id), nil, nil, &role); err != nil {
		return nil, err
	}

	return &role, nil
}

// CreateRole creates a realm role in the provider.
func (c *Client) CreateRole(ctx context.Context, role Role) error {
	return c.do(ctx, "CreateRole", http.MethodPost, "/roles", nil, role, nil)
}

// UpdateRole replaces the realm role with the given provider id.
func (c *Client) UpdateRole(ctx context.Context, id string, role Role) error {
	return c.do(ctx, "UpdateRole", http.MethodPut, "/roles-by-id/"+url.PathEscape(id), nil, role, nil)
}

// RealmRolesOf returns the realm roles mapped to the user.
func (c *Client) RealmRolesOf(ctx context.Context, userID string) ([]Role, error) {
	var roles []Role

	err := c.do(ctx, "RealmRolesOf", http.MethodGet,
		"/users/"+url.PathEscape(userID)+"/role-mappings/realm", nil, nil, &roles)
	if err != nil {
		return nil, err
	}

	return roles, nil
}

// RoleMappingsOf returns the user's complete role mappings, realm and client level.
func (c *Client) RoleMappingsOf(ctx context.Context, userID string) (*RoleMappings, error) {
	var mappings RoleMappings

	err := c.do(ctx, "RoleMappingsOf", http.MethodGet,
		"/users/"+url.PathEscape(userID)+"/role-mappings", nil, nil, &mappings)
	if err != nil {
		return nil, err
	}

	return &mappings, nil
}

// AssignRealmRole maps a realm role onto the user.
func (c *Client) AssignRealmRole(ctx context.Context, userID string, role Role) error {
	payload := []Role{{ID: role.ID, Name: role.Name}}

	return c.do(ctx, "AssignRealmRole", http.MethodPost,
		"/users/"+url.PathEscape(userID)+"/role-mappings/realm", nil, payload, nil)
}

// ClearRoleMappings removes every realm and client level role from the user.
// Callers re-assign the replacement role afterwards, so deletion always
// completes before the new assignment starts.
func (c *Client) ClearRoleMappings(ctx context.Context, userID string) error {
	mappings, err := c.RoleMappingsOf(ctx, userID)
	if err != nil {
		return err
	}

	if len(mappings.RealmMappings) > 0 {
		err := c.do(ctx, "ClearRealmRoles", http.MethodDelete,
			"/users/"+url.PathEscape(userID)+"/role-mappings/realm", nil, mappings.RealmMappings, nil)
		if err != nil {
			return err
		}
	}

	for _, client := range mappings.ClientMappings {
		if len(client.Mappings) == 0 {
			continue
		}

		err := c.do(ctx, "ClearClientRoles", http.MethodDelete,
			"/users/"+url.PathEscape(userID)+"/role-mappings/clients/"+url.PathEscape(client.ID),
			nil, client.Mappings, nil)
		if err != nil {
			return err
		}
	}

	return nil
}
