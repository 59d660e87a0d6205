package models

import "time"

// UserReference is the thin local record kept per identity-provider user.
// Profile fields (username, email, enabled flag) live in the provider; this row
// only binds the provider's user id to a local role so menu permissions can be
// resolved without calling out.
type UserReference struct {
	// ID is the local surrogate key.
	ID uint `gorm:"primaryKey"`
	// ReferenceKey is the identity provider's user id (UUID).
	ReferenceKey string `gorm:"unique;size:64;not null"`
	// RoleID is the local role assigned to this user.
	RoleID uint `gorm:"column:role_id;not null"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// CreatedBy names who created the record.
	CreatedBy string `gorm:"size:100"`
	// CreatedAt is the timestamp when the record was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the record was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the UserReference model.
func (UserReference) TableName() string {
	return "user_references"
}
