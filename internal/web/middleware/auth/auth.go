// Package auth provides the bearer token middleware. Every protected route
// runs the presented access token through the identity provider's
// introspection endpoint and attaches the caller's identity to the request.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/authn"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
)

// Locals keys set by the middleware.
const (
	// IdentityKey holds the *authn.Identity of the authenticated caller.
	IdentityKey = "identity"
	// TokenKey holds the raw bearer token for downstream provider calls.
	TokenKey = "token"
)

// New creates the middleware. A missing, malformed, expired or revoked token
// ends the request with the forbidden envelope.
func New(client *idp.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return apperr.ErrForbidden
		}

		result, err := client.Introspect(c.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("token introspection failed")

			return apperr.ErrForbidden
		}

		if !result.Active {
			return apperr.ErrForbidden
		}

		info, err := client.UserInfo(c.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("userinfo lookup failed")

			return apperr.ErrForbidden
		}

		identity := &authn.Identity{
			ID:       info.Sub,
			Username: info.PreferredUsername,
			Email:    info.Email,
			Name:     info.Name,
			Roles:    result.RealmAccess.Roles,
		}

		c.Locals(IdentityKey, identity)
		c.Locals(TokenKey, token)

		return c.Next()
	}
}

// IdentityFrom returns the authenticated caller set by the middleware, or nil
// on unprotected routes.
func IdentityFrom(c *fiber.Ctx) *authn.Identity {
	identity, _ := c.Locals(IdentityKey).(*authn.Identity)

	return identity
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
