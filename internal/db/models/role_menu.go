package models

// RoleMenu represents the many-to-many relationship between roles and menu items.
// The Permission string encodes which of create/read/update/delete a role holds
// on the menu item, e.g. "CRUD" or "R".
type RoleMenu struct {
	// RoleID is the ID of the role in this mapping.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// MenuID is the ID of the menu item in this mapping.
	MenuID uint `gorm:"primaryKey;column:menu_id"`
	// Permission is the CRUD-style permission string the role holds on the item.
	Permission string `gorm:"size:10;not null"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Menu is the associated menu item (loaded via foreign key).
	Menu Menu `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RoleMenu model.
// This overrides GORM's default pluralized table naming.
func (RoleMenu) TableName() string {
	return "role_menus"
}
