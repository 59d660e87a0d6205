package menu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestDeduplicate_FirstOccurrenceKeepsPosition(t *testing.T) {
	edges := []Edge{
		{ID: 1, ParentID: 0, Name: "Dashboard"},
		{ID: 2, ParentID: 0, Name: "Settings"},
		{ID: 1, ParentID: 0, Name: "Dashboard"},
	}

	out := Deduplicate(edges)

	require.Len(t, out, 2)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(2), out[1].ID)
}

func TestDeduplicate_PermissionWinsOverAncestorRow(t *testing.T) {
	// The ancestor walk emits the same item twice: once without permission
	// (as a parent of a granted child) and once with the actual grant. The
	// granted occurrence must win but keep the first occurrence's position.
	edges := []Edge{
		{ID: 1, ParentID: 0, Name: "Reports"},
		{ID: 2, ParentID: 0, Name: "Settings", Permission: strPtr("R")},
		{ID: 1, ParentID: 0, Name: "Reports", Permission: strPtr("CRUD")},
	}

	out := Deduplicate(edges)

	require.Len(t, out, 2)
	assert.Equal(t, uint(1), out[0].ID)
	require.NotNil(t, out[0].Permission)
	assert.Equal(t, "CRUD", *out[0].Permission)
}

func TestDeduplicate_FirstPermissionRetained(t *testing.T) {
	// When the retained occurrence already has a permission, later
	// occurrences never replace it.
	edges := []Edge{
		{ID: 1, ParentID: 0, Name: "Reports", Permission: strPtr("R")},
		{ID: 1, ParentID: 0, Name: "Reports", Permission: strPtr("CRUD")},
	}

	out := Deduplicate(edges)

	require.Len(t, out, 1)
	require.NotNil(t, out[0].Permission)
	assert.Equal(t, "R", *out[0].Permission)
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
}

func TestBuildTree_ParentWithGrantedChild(t *testing.T) {
	edges := []Edge{
		{ID: 1, ParentID: 0, Name: "User Management"},
		{ID: 2, ParentID: 1, Name: "Users", Permission: strPtr("CRUD")},
		{ID: 1, ParentID: 0, Name: "User Management"},
	}

	tree := BuildTree(Deduplicate(edges), 0)

	require.Len(t, tree, 1)
	assert.Equal(t, uint(1), tree[0].ID)
	assert.Nil(t, tree[0].Permission)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, uint(2), tree[0].Children[0].ID)
	require.NotNil(t, tree[0].Children[0].Permission)
	assert.Equal(t, "CRUD", *tree[0].Children[0].Permission)
}

func TestBuildTree_SiblingOrderPreserved(t *testing.T) {
	edges := []Edge{
		{ID: 3, ParentID: 0, Name: "A", SortOrder: 1},
		{ID: 1, ParentID: 0, Name: "B", SortOrder: 2},
		{ID: 4, ParentID: 3, Name: "A1", SortOrder: 1},
		{ID: 5, ParentID: 3, Name: "A2", SortOrder: 2},
	}

	tree := BuildTree(edges, 0)

	require.Len(t, tree, 2)
	assert.Equal(t, uint(3), tree[0].ID)
	assert.Equal(t, uint(1), tree[1].ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "A1", tree[0].Children[0].Name)
	assert.Equal(t, "A2", tree[0].Children[1].Name)
}

func TestBuildTree_LeafChildrenSerializeAsEmptyArray(t *testing.T) {
	tree := BuildTree([]Edge{{ID: 1, ParentID: 0, Name: "Dashboard"}}, 0)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"children":[]`)
}

func TestBuildTree_EmptyInput(t *testing.T) {
	tree := BuildTree(nil, 0)

	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}
