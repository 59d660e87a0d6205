// Package menu computes a user's effective navigation tree from the role to
// menu permission mappings kept in the local database.
//
// Grants are stored at leaf granularity; rendering a navigable menu needs the
// full ancestor path of every granted item. The resolver therefore pulls the
// granted rows plus all their ancestors (permission-less path rows) in one
// recursive query, reconciles duplicate occurrences of the same item, and
// assembles the flat result into a forest.
package menu

// Edge is one row of the recursive menu query: a menu item reachable by the
// user, optionally carrying the permission the user's role holds on it.
// Permission is nil for rows pulled in only as path ancestors.
type Edge struct {
	ID         uint    `json:"id"`
	ParentID   uint    `json:"parentId"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	Icon       string  `json:"icon"`
	SortOrder  int     `json:"order"`
	Permission *string `json:"permission"`
}

// Node is a resolved menu tree node. Children holds exactly the nodes whose
// ParentID equals this node's ID, in the query's sibling order.
type Node struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	Icon       string  `json:"icon"`
	SortOrder  int     `json:"order"`
	Permission *string `json:"permission"`
	Children   []*Node `json:"children"`
}

// Deduplicate collapses multiple occurrences of the same menu id into one edge.
// The first occurrence keeps its position in the result. It is only replaced,
// in place, when it lacks a permission and a later occurrence carries one; a
// later permission-less row never overwrites an earlier granted one.
func Deduplicate(edges []Edge) []Edge {
	out := make([]Edge, 0, len(edges))
	seen := make(map[uint]int, len(edges))

	for _, e := range edges {
		at, ok := seen[e.ID]
		if !ok {
			seen[e.ID] = len(out)
			out = append(out, e)

			continue
		}

		if out[at].Permission == nil && e.Permission != nil {
			out[at] = e
		}
	}

	return out
}

// BuildTree assembles the forest rooted at parentID from deduplicated edges.
// Sibling order follows the input slice order, so the query ordering
// (roots first, then parent id, then declared order) carries into the tree.
// Menu items form a strict tree by construction, an item is never its own
// ancestor, so the recursion terminates.
func BuildTree(edges []Edge, parentID uint) []*Node {
	nodes := make([]*Node, 0)

	for _, e := range edges {
		if e.ParentID != parentID {
			continue
		}

		nodes = append(nodes, &Node{
			ID:         e.ID,
			Name:       e.Name,
			URL:        e.URL,
			Icon:       e.Icon,
			SortOrder:  e.SortOrder,
			Permission: e.Permission,
			Children:   BuildTree(edges, e.ID),
		})
	}

	return nodes
}
