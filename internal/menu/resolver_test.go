package menu

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/db/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Menu{},
		&models.Role{},
		&models.RoleMenu{},
		&models.UserReference{},
	))

	return db
}

func seedMenuFixture(t *testing.T, db *gorm.DB, roleActive bool) uint {
	t.Helper()

	menus := []models.Menu{
		{ID: 1, ParentID: 0, Name: "Dashboard", URL: "/dashboard", SortOrder: 1, Active: true},
		{ID: 2, ParentID: 0, Name: "User Management", SortOrder: 2, Active: true},
		{ID: 3, ParentID: 2, Name: "Users", URL: "/users", SortOrder: 1, Active: true},
		{ID: 4, ParentID: 2, Name: "Roles", URL: "/roles", SortOrder: 2, Active: true},
	}
	require.NoError(t, db.Create(&menus).Error)

	role := models.Role{Name: "Operator", Active: roleActive}
	require.NoError(t, db.Create(&role).Error)

	grants := []models.RoleMenu{
		{RoleID: role.ID, MenuID: 3, Permission: "CRUD"},
		{RoleID: role.ID, MenuID: 4, Permission: "R"},
		{RoleID: role.ID, MenuID: 1, Permission: "R"},
	}
	require.NoError(t, db.Create(&grants).Error)

	ref := models.UserReference{ReferenceKey: "11111111-aaaa-bbbb-cccc-000000000001", RoleID: role.ID}
	require.NoError(t, db.Create(&ref).Error)

	return ref.ID
}

func TestResolveEffectiveMenu(t *testing.T) {
	db := testDB(t)
	userID := seedMenuFixture(t, db, true)

	tree, err := NewResolver(db).ResolveEffectiveMenu(context.Background(), userID)
	require.NoError(t, err)

	// Two roots: Dashboard before User Management, children in sort order.
	require.Len(t, tree, 2)
	assert.Equal(t, "Dashboard", tree[0].Name)
	require.NotNil(t, tree[0].Permission)
	assert.Equal(t, "R", *tree[0].Permission)
	assert.Empty(t, tree[0].Children)

	assert.Equal(t, "User Management", tree[1].Name)
	// Pulled in as an ancestor only, so no permission of its own.
	assert.Nil(t, tree[1].Permission)
	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, "Users", tree[1].Children[0].Name)
	assert.Equal(t, "Roles", tree[1].Children[1].Name)
	require.NotNil(t, tree[1].Children[0].Permission)
	assert.Equal(t, "CRUD", *tree[1].Children[0].Permission)
}

func TestResolveEffectiveMenu_PermissionHasNoPadding(t *testing.T) {
	db := testDB(t)
	userID := seedMenuFixture(t, db, true)

	tree, err := NewResolver(db).ResolveEffectiveMenu(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Len(t, tree[1].Children, 2)

	perm := tree[1].Children[0].Permission
	require.NotNil(t, perm)
	assert.Equal(t, "CRUD", *perm)
	assert.Equal(t, strings.TrimRight(*perm, " "), *perm)

	// A CHAR(n) cast comes back blank-padded from postgres. Guard the query
	// text since the in-memory engine used here would not reproduce that.
	assert.Contains(t, effectiveMenuQuery, "CAST(rm.permission AS VARCHAR(1000))")
	assert.NotContains(t, effectiveMenuQuery, "AS CHAR(")
}

func TestResolveEffectiveMenu_InactiveRole(t *testing.T) {
	db := testDB(t)
	userID := seedMenuFixture(t, db, false)

	tree, err := NewResolver(db).ResolveEffectiveMenu(context.Background(), userID)
	require.NoError(t, err)

	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestResolveEffectiveMenu_UnknownUser(t *testing.T) {
	db := testDB(t)

	tree, err := NewResolver(db).ResolveEffectiveMenu(context.Background(), 4242)
	require.NoError(t, err)

	assert.Empty(t, tree)
}
