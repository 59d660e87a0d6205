package menu

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// effectiveMenuQuery collects every menu item granted to the user's active
// role, then walks parent links upwards so each granted leaf has a complete
// path to a root. Ancestor-only rows carry a NULL permission; Deduplicate
// reconciles them with granted occurrences of the same item.
//
// The ORDER BY puts roots (parent_id = 0) first, then groups by parent and
// declared order; BuildTree preserves that order among siblings.
//
// The permission cast must be VARCHAR, not CHAR: postgres blank-pads
// character(n) values, mysql and sqlite do not.
const effectiveMenuQuery = `
WITH RECURSIVE user_menus AS (
	SELECT
		m.id,
		m.parent_id,
		m.name,
		m.url,
		m.icon,
		m.sort_order,
		CAST(rm.permission AS VARCHAR(1000)) AS permission
	FROM user_references u
	JOIN roles r ON u.role_id = r.id
	JOIN role_menus rm ON r.id = rm.role_id
	JOIN menus m ON rm.menu_id = m.id
	WHERE u.id = ? AND r.active = ?
),
menu_ancestors AS (
	SELECT
		um.id,
		um.parent_id,
		um.name,
		um.url,
		um.icon,
		um.sort_order,
		um.permission
	FROM user_menus um

	UNION ALL

	SELECT
		m.id,
		m.parent_id,
		m.name,
		m.url,
		m.icon,
		m.sort_order,
		NULL AS permission
	FROM menus m
	JOIN menu_ancestors ma ON m.id = ma.parent_id
)
SELECT *
FROM menu_ancestors
ORDER BY
	CASE
		WHEN parent_id = 0 THEN 0
		ELSE 1
	END,
	parent_id,
	sort_order
`

// Resolver resolves effective menu trees from the database.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a menu resolver on top of the given database handle.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveEffectiveMenu returns the navigation forest for the given local user.
// A user without any grants gets an empty forest, not an error; only query
// execution failures are reported.
func (r *Resolver) ResolveEffectiveMenu(ctx context.Context, userID uint) ([]*Node, error) {
	var edges []Edge

	err := r.db.WithContext(ctx).
		Raw(effectiveMenuQuery, userID, true).
		Scan(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve menu for user %d: %w", userID, err)
	}

	return BuildTree(Deduplicate(edges), 0), nil
}
