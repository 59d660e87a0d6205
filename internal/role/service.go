// Package role implements the role management workflows against the identity
// provider's realm roles.
package role

import (
	"context"
	"sort"
	"strings"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/pagination"
)

var validSortFields = []string{"name", "description"}

// Service orchestrates role workflows.
type Service struct {
	idp *idp.Client
}

// New creates the role service.
func New(client *idp.Client) *Service {
	return &Service{idp: client}
}

// ListParams narrows a List call.
type ListParams struct {
	Page   int
	Size   int
	Search string
	Sort   string
	Order  string
}

// Listing is a paged role listing with DataTables style counters.
type Listing struct {
	RecordsTotal    int        `json:"recordsTotal"`
	RecordsFiltered int        `json:"recordsFiltered"`
	Data            []idp.Role `json:"data"`
}

// Item is the reduced representation used by selection lists.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List returns one page of realm roles. Totals come from a brief full listing,
// the filtered count from an unpaged search; the page itself is sorted in
// memory since the provider cannot sort roles.
func (s *Service) List(ctx context.Context, params ListParams) (*Listing, error) {
	p := pagination.Resolve(params.Page, params.Size, params.Sort, params.Order, validSortFields, "name")

	roles, err := s.idp.ListRoles(ctx, idp.RoleQuery{
		Search: params.Search,
		First:  p.Offset,
		Max:    p.Size,
	})
	if err != nil {
		return nil, err
	}

	allRoles, err := s.idp.ListRoles(ctx, idp.RoleQuery{Brief: true})
	if err != nil {
		return nil, err
	}

	filteredRoles, err := s.idp.ListRoles(ctx, idp.RoleQuery{Search: params.Search})
	if err != nil {
		return nil, err
	}

	sortRoles(roles, p.SortField, p.Desc)

	return &Listing{
		RecordsTotal:    len(allRoles),
		RecordsFiltered: len(filteredRoles),
		Data:            roles,
	}, nil
}

// ByID returns one realm role.
func (s *Service) ByID(ctx context.Context, id string) (*idp.Role, error) {
	role, err := s.idp.GetRoleByID(ctx, id)
	if err != nil {
		if idp.IsNotFound(err) {
			return nil, apperr.ErrRoleNotFound
		}

		return nil, err
	}

	return role, nil
}

// ListAll returns every realm role reduced to id and name, for selects.
func (s *Service) ListAll(ctx context.Context) ([]Item, error) {
	roles, err := s.idp.ListRoles(ctx, idp.RoleQuery{})
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(roles))
	for _, r := range roles {
		items = append(items, Item{ID: r.ID, Name: r.Name})
	}

	return items, nil
}

// CreateParams is the input of the create workflow.
type CreateParams struct {
	Name        string
	Description string
}

// Create adds a realm role after checking the name is not taken. The provider
// search is a substring match, so the conflict check compares exact names.
func (s *Service) Create(ctx context.Context, params CreateParams, creator string) error {
	existing, err := s.idp.ListRoles(ctx, idp.RoleQuery{Search: params.Name})
	if err != nil {
		return err
	}

	for _, r := range existing {
		if r.Name == params.Name {
			return apperr.ErrRoleAlreadyExists
		}
	}

	role := idp.Role{
		Name:        params.Name,
		Description: params.Description,
		Attributes: map[string][]string{
			"created_by": {creator},
		},
	}

	return s.idp.CreateRole(ctx, role)
}

// UpdateParams is the input of the update workflow. Empty fields keep the
// role's current value.
type UpdateParams struct {
	Name        string
	Description string
}

// Update merges the given fields into the role's current representation and
// pushes the result, stamping the updater into the attributes.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams, updater string) error {
	current, err := s.idp.GetRoleByID(ctx, id)
	if err != nil {
		if idp.IsNotFound(err) {
			return apperr.ErrRoleNotFound
		}

		return err
	}

	role := *current

	if params.Name != "" {
		role.Name = params.Name
	}

	if params.Description != "" {
		role.Description = params.Description
	}

	if role.Attributes == nil {
		role.Attributes = map[string][]string{}
	}

	role.Attributes["updated_by"] = []string{updater}

	return s.idp.UpdateRole(ctx, id, role)
}

func sortRoles(roles []idp.Role, field string, desc bool) {
	sort.SliceStable(roles, func(i, j int) bool {
		a, b := roles[i], roles[j]
		if desc {
			a, b = b, a
		}

		if field == "description" {
			return strings.ToLower(a.Description) < strings.ToLower(b.Description)
		}

		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
