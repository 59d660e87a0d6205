package role

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
)

type fakeIdP struct {
	*httptest.Server
	mux     *http.ServeMux
	roles   []idp.Role
	created []idp.Role
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()

	f := &fakeIdP{mux: http.NewServeMux()}

	f.mux.HandleFunc("/realms/test/protocol/openid-connect/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"admin-token","expires_in":300}`)
	})

	f.mux.HandleFunc("/admin/realms/test/roles", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var role idp.Role
			_ = json.NewDecoder(r.Body).Decode(&role)
			f.created = append(f.created, role)
			w.WriteHeader(http.StatusCreated)
			return
		}

		matches := f.roles
		if search := r.URL.Query().Get("search"); search != "" {
			matches = nil
			for _, role := range f.roles {
				if strings.Contains(strings.ToLower(role.Name), strings.ToLower(search)) {
					matches = append(matches, role)
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(matches)
	})

	f.Server = httptest.NewServer(f.mux)
	t.Cleanup(f.Close)

	return f
}

func newTestService(t *testing.T, f *fakeIdP) *Service {
	t.Helper()

	return New(idp.New(&config.IdP{
		BaseURL:       f.URL,
		Realm:         "test",
		AdminClientID: "admin-cli",
		AdminUsername: "admin",
		AdminPassword: "secret",
	}))
}

func TestList_CountersAndSort(t *testing.T) {
	f := newFakeIdP(t)
	f.roles = []idp.Role{
		{ID: "r-2", Name: "Operator"},
		{ID: "r-1", Name: "Admin"},
		{ID: "r-3", Name: "Viewer"},
	}
	svc := newTestService(t, f)

	listing, err := svc.List(context.Background(), ListParams{Page: 1, Size: 10, Sort: "name", Order: "asc"})
	require.NoError(t, err)

	assert.Equal(t, 3, listing.RecordsTotal)
	assert.Equal(t, 3, listing.RecordsFiltered)
	require.Len(t, listing.Data, 3)
	assert.Equal(t, "Admin", listing.Data[0].Name)
	assert.Equal(t, "Viewer", listing.Data[2].Name)
}

func TestListAll_ReducedRepresentation(t *testing.T) {
	f := newFakeIdP(t)
	f.roles = []idp.Role{{ID: "r-1", Name: "Admin", Description: "full access"}}
	svc := newTestService(t, f)

	items, err := svc.ListAll(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "r-1", items[0].ID)
	assert.Equal(t, "Admin", items[0].Name)
}

func TestCreate_DuplicateName(t *testing.T) {
	f := newFakeIdP(t)
	f.roles = []idp.Role{{ID: "r-1", Name: "Admin"}}
	svc := newTestService(t, f)

	err := svc.Create(context.Background(), CreateParams{Name: "Admin", Description: "again"}, "tester")

	assert.ErrorIs(t, err, apperr.ErrRoleAlreadyExists)
	assert.Empty(t, f.created)
}

func TestCreate_SubstringMatchIsNotAConflict(t *testing.T) {
	// The provider search matches substrings; only an exact name collision
	// blocks creation.
	f := newFakeIdP(t)
	f.roles = []idp.Role{{ID: "r-1", Name: "Administrator"}}
	svc := newTestService(t, f)

	err := svc.Create(context.Background(), CreateParams{Name: "Admin", Description: "new"}, "tester")

	require.NoError(t, err)
	require.Len(t, f.created, 1)
	assert.Equal(t, "Admin", f.created[0].Name)
	assert.Equal(t, []string{"tester"}, f.created[0].Attributes["created_by"])
}

func TestUpdate_MergesWithCurrent(t *testing.T) {
	f := newFakeIdP(t)

	var updated idp.Role
	f.mux.HandleFunc("/admin/realms/test/roles-by-id/r-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			_ = json.NewDecoder(r.Body).Decode(&updated)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"r-1","name":"Admin","description":"full access","containerId":"test"}`)
	})
	svc := newTestService(t, f)

	err := svc.Update(context.Background(), "r-1", UpdateParams{Description: "tightened"}, "tester")
	require.NoError(t, err)

	assert.Equal(t, "Admin", updated.Name, "unset fields keep the current value")
	assert.Equal(t, "tightened", updated.Description)
	assert.Equal(t, "test", updated.ContainerID)
	assert.Equal(t, []string{"tester"}, updated.Attributes["updated_by"])
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFakeIdP(t)
	f.mux.HandleFunc("/admin/realms/test/roles-by-id/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Role not found"}`, http.StatusNotFound)
	})
	svc := newTestService(t, f)

	err := svc.Update(context.Background(), "missing", UpdateParams{Name: "x"}, "tester")

	assert.ErrorIs(t, err, apperr.ErrRoleNotFound)
}
