package daemon

import (
	"gorm.io/gorm"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/db/models"
)

// seededBy marks rows created here so operators can tell them from managed data.
const seededBy = "seed_script"

// defaultMenus is the initial navigation. ParentID 0 marks roots; children
// reference their parent by the seeded id.
var defaultMenus = []models.Menu{
	{ID: 1, ParentID: 0, Name: "Dashboard", URL: "/dashboard", Icon: "dashboard", SortOrder: 1, Active: true},
	{ID: 2, ParentID: 0, Name: "User Management", URL: "", Icon: "group", SortOrder: 2, Active: true},
	{ID: 3, ParentID: 2, Name: "Users", URL: "/users", Icon: "person", SortOrder: 1, Active: true},
	{ID: 4, ParentID: 2, Name: "Roles", URL: "/roles", Icon: "badge", SortOrder: 2, Active: true},
	{ID: 5, ParentID: 0, Name: "Settings", URL: "/settings", Icon: "settings", SortOrder: 3, Active: true},
}

// seed creates the initial menus and the Admin role holding CRUD on every
// menu item. It is idempotent, existing rows are left alone.
func seed(_ *config.Config, db *gorm.DB) {
	for _, m := range defaultMenus {
		db.Where(models.Menu{ID: m.ID}).FirstOrCreate(&m)
	}

	admin := models.Role{
		Name:        "Admin",
		Description: "Administrator with full access",
		IsSystem:    true,
		Active:      true,
		CreatedBy:   seededBy,
	}
	db.Where(models.Role{Name: admin.Name}).FirstOrCreate(&admin)

	var menus []models.Menu
	db.Find(&menus)

	for _, m := range menus {
		mapping := models.RoleMenu{RoleID: admin.ID, MenuID: m.ID, Permission: "CRUD"}
		db.Where(models.RoleMenu{RoleID: admin.ID, MenuID: m.ID}).FirstOrCreate(&mapping)
	}
}
