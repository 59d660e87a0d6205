package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
)

func newFakeProvider(t *testing.T, active bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	issuer := server.URL + "/realms/test"

	mux.HandleFunc("/realms/test/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"issuer": %[1]q,
			"authorization_endpoint": %[1]q,
			"token_endpoint": "%[1]s/protocol/openid-connect/token",
			"jwks_uri": "%[1]s/protocol/openid-connect/certs",
			"userinfo_endpoint": "%[1]s/protocol/openid-connect/userinfo"
		}`, issuer)
	})

	mux.HandleFunc("/realms/test/protocol/openid-connect/token/introspect", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"active":%t,"sub":"u-1","preferred_username":"alice","realm_access":{"roles":["Admin"]}}`, active)
	})

	mux.HandleFunc("/realms/test/protocol/openid-connect/userinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sub":"u-1","preferred_username":"alice","email":"alice@example.com","name":"Alice Example"}`)
	})

	return server
}

func testApp(t *testing.T, server *httptest.Server) *fiber.App {
	t.Helper()

	client := idp.New(&config.IdP{
		BaseURL:              server.URL,
		Realm:                "test",
		FrontendClientID:     "frontend",
		FrontendClientSecret: "secret",
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := apperr.From(err)

			return c.Status(appErr.Status).JSON(fiber.Map{"success": false, "message": appErr.Message})
		},
	})

	app.Get("/protected", New(client), func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		require.NotNil(t, identity)

		return c.JSON(identity)
	})

	return app
}

func TestMiddleware_ActiveToken(t *testing.T) {
	app := testApp(t, newFakeProvider(t, true))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddleware_InactiveToken(t *testing.T) {
	app := testApp(t, newFakeProvider(t, false))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer revoked-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	app := testApp(t, newFakeProvider(t, true))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()

	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		if tt.header != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, tt.header)
		}

		assert.Equal(t, tt.want, bearerToken(c), "header %q", tt.header)
		app.ReleaseCtx(c)
	}
}
