package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
)

// fakeProvider is a minimal identity provider for tests. It serves the token
// endpoint and counts token requests; everything else is delegated to mux.
type fakeProvider struct {
	*httptest.Server
	mux         *http.ServeMux
	tokenCalls  atomic.Int32
	tokenExpiry int
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	p := &fakeProvider{mux: http.NewServeMux(), tokenExpiry: 300}
	p.mux.HandleFunc("/realms/test/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		p.tokenCalls.Add(1)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"admin-token-%d","expires_in":%d,"token_type":"Bearer"}`,
			p.tokenCalls.Load(), p.tokenExpiry)
	})

	p.Server = httptest.NewServer(p.mux)
	t.Cleanup(p.Close)

	return p
}

func (p *fakeProvider) client() *Client {
	return New(&config.IdP{
		BaseURL:       p.URL,
		Realm:         "test",
		AdminClientID: "admin-cli",
		AdminUsername: "admin",
		AdminPassword: "secret",
	})
}

func TestAdminToken_CachedWithinLifetime(t *testing.T) {
	p := newFakeProvider(t)
	c := p.client()

	first, err := c.AdminToken(context.Background())
	require.NoError(t, err)

	second, err := c.AdminToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), p.tokenCalls.Load(), "second call within the lifetime must not hit the provider")
}

func TestAdminToken_RefreshAfterExpiry(t *testing.T) {
	p := newFakeProvider(t)
	c := p.client()

	first, err := c.AdminToken(context.Background())
	require.NoError(t, err)

	// Force the cached token past its expiry.
	c.mu.Lock()
	c.adminExpiry = time.Now().Add(-time.Second)
	c.mu.Unlock()

	second, err := c.AdminToken(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), p.tokenCalls.Load())
	assert.True(t, c.adminExpiry.After(time.Now()), "refresh must store a fresh expiry")
}

func TestAdminToken_SafetyMargin(t *testing.T) {
	p := newFakeProvider(t)
	p.tokenExpiry = 60
	c := p.client()

	before := time.Now()
	_, err := c.AdminToken(context.Background())
	require.NoError(t, err)

	// expiry = now + lifetime - 10s margin.
	expected := before.Add(60*time.Second - adminTokenSafetyMargin)
	assert.WithinDuration(t, expected, c.adminExpiry, 2*time.Second)
}

func TestAdminToken_UpstreamFailure(t *testing.T) {
	p := newFakeProvider(t)
	p.mux.HandleFunc("/realms/broken/protocol/openid-connect/token", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	})

	c := New(&config.IdP{BaseURL: p.URL, Realm: "broken"})

	_, err := c.AdminToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamAuth)
}

func TestDo_NormalizesUpstreamError(t *testing.T) {
	p := newFakeProvider(t)
	p.mux.HandleFunc("/admin/realms/test/users/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"User not found"}`, http.StatusNotFound)
	})

	c := p.client()

	_, err := c.GetUser(context.Background(), "missing")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "GetUser", reqErr.Op)
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Contains(t, reqErr.Body, "User not found")
	assert.True(t, IsNotFound(err))
}

func TestDo_NormalizesTransportError(t *testing.T) {
	p := newFakeProvider(t)
	c := p.client()

	// Warm the token cache, then kill the server so the admin call fails on
	// the wire instead of with an upstream status.
	_, err := c.AdminToken(context.Background())
	require.NoError(t, err)
	p.Close()

	_, err = c.GetUser(context.Background(), "any")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, reqErr.Status, "transport failures carry no upstream status")
	assert.NotEmpty(t, reqErr.Body)
}

func TestDo_SendsBearerAndDecodes(t *testing.T) {
	p := newFakeProvider(t)
	p.mux.HandleFunc("/admin/realms/test/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "exact", r.URL.Query().Get("username"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]User{{ID: "u-1", Username: "exact"}})
	})

	c := p.client()

	users, err := c.UsersByUsername(context.Background(), "exact")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)
}

func TestUserInfo_RetriesDiscoveryAfterOutage(t *testing.T) {
	p := newFakeProvider(t)

	var discoveryDown atomic.Bool
	discoveryDown.Store(true)

	p.mux.HandleFunc("/realms/test/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		if discoveryDown.Load() {
			http.Error(w, "temporarily down", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"issuer":%q,"authorization_endpoint":%q,"token_endpoint":%q,"userinfo_endpoint":%q,"jwks_uri":%q}`,
			p.URL+"/realms/test",
			p.URL+"/realms/test/protocol/openid-connect/auth",
			p.URL+"/realms/test/protocol/openid-connect/token",
			p.URL+"/realms/test/protocol/openid-connect/userinfo",
			p.URL+"/realms/test/protocol/openid-connect/certs",
		)
	})
	p.mux.HandleFunc("/realms/test/protocol/openid-connect/userinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sub":"u-1","preferred_username":"alice","email":"alice@example.com"}`)
	})

	c := p.client()

	_, err := c.UserInfo(context.Background(), "some-token")
	require.Error(t, err, "discovery outage must surface")

	discoveryDown.Store(false)

	info, err := c.UserInfo(context.Background(), "some-token")
	require.NoError(t, err, "discovery must be retried once the provider recovers")
	assert.Equal(t, "u-1", info.Sub)
	assert.Equal(t, "alice", info.PreferredUsername)
}

func TestIntrospect(t *testing.T) {
	p := newFakeProvider(t)
	p.mux.HandleFunc("/realms/test/protocol/openid-connect/token/introspect", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "some-token", r.Form.Get("token"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"active":true,"sub":"u-1","preferred_username":"alice","realm_access":{"roles":["Admin"]}}`)
	})

	c := p.client()

	result, err := c.Introspect(context.Background(), "some-token")
	require.NoError(t, err)
	assert.True(t, result.Active)
	assert.Equal(t, "u-1", result.Sub)
	assert.Equal(t, []string{"Admin"}, result.RealmAccess.Roles)
}
