package models

import "time"

// Role represents a local role in the menu permission system.
// Roles mirror the realm roles kept in the identity provider and carry the
// menu/permission mappings that the provider knows nothing about.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "Admin").
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// Active indicates whether the role takes part in permission resolution.
	Active bool `gorm:"default:true"`
	// CreatedBy names who created the role.
	CreatedBy string `gorm:"size:100"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}
