package models

// Menu represents a navigation menu item.
// Menu items form a strict tree via ParentID; a ParentID of 0 marks a root.
type Menu struct {
	// ID is the unique identifier for the menu item.
	ID uint `gorm:"primaryKey"`
	// ParentID is the id of the parent menu item, 0 for root items.
	ParentID uint `gorm:"column:parent_id;not null;default:0"`
	// Name is the display name of the menu item.
	Name string `gorm:"size:100;not null"`
	// URL is the frontend route the menu item links to.
	URL string `gorm:"size:255"`
	// Icon is the icon identifier rendered next to the name.
	Icon string `gorm:"size:100"`
	// SortOrder orders the item among its siblings.
	SortOrder int `gorm:"column:sort_order;not null;default:0"`
	// Active indicates whether the item is shown at all.
	Active bool `gorm:"default:true"`
}

// TableName specifies the database table name for the Menu model.
func (Menu) TableName() string {
	return "menus"
}
