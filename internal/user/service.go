// Package user implements the user management workflows on top of the
// identity provider and the local reference store.
package user

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/db/models"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/mailer"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/pagination"
)

// validSortFields are the columns the provider's user representation can be
// sorted on. Anything else falls back to username ascending.
var validSortFields = []string{"username", "email", "firstName", "lastName", "createdTimestamp"}

// Service orchestrates user workflows.
type Service struct {
	idp    *idp.Client
	db     *gorm.DB
	mailer *mailer.Mailer
}

// New creates the user service.
func New(client *idp.Client, db *gorm.DB, m *mailer.Mailer) *Service {
	return &Service{idp: client, db: db, mailer: m}
}

// ListParams narrows a List call.
type ListParams struct {
	Page   int
	Size   int
	Search string
	Sort   string
	Order  string
	// Status filters by account state: "enabled", "disabled" or empty for all.
	Status string
}

// Row is one user in a listing, enriched with the realm role names.
type Row struct {
	ID               string   `json:"id"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	FirstName        string   `json:"firstName"`
	Enabled          bool     `json:"enabled"`
	CreatedTimestamp int64    `json:"createdTimestamp"`
	Roles            []string `json:"roles"`
}

// Listing is a paged user listing with DataTables style counters.
type Listing struct {
	RecordsTotal    int   `json:"recordsTotal"`
	RecordsFiltered int   `json:"recordsFiltered"`
	Data            []Row `json:"data"`
}

// Detail is a single user with the realm role names attached.
type Detail struct {
	idp.User
	Roles []string `json:"roles"`
}

// List returns one page of users. The provider cannot sort its user listing,
// so the page is sorted in memory on a whitelisted field; each row carries the
// user's realm role names, fetched per row.
func (s *Service) List(ctx context.Context, params ListParams) (*Listing, error) {
	p := pagination.Resolve(params.Page, params.Size, params.Sort, params.Order, validSortFields, "username")

	query := idp.UserQuery{
		Search: params.Search,
		First:  p.Offset,
		Max:    p.Size,
	}

	switch params.Status {
	case "enabled":
		enabled := true
		query.Enabled = &enabled
	case "disabled":
		enabled := false
		query.Enabled = &enabled
	}

	users, err := s.idp.ListUsers(ctx, query)
	if err != nil {
		return nil, err
	}

	allUsers, err := s.idp.ListUsers(ctx, idp.UserQuery{Brief: true})
	if err != nil {
		return nil, err
	}

	sortUsers(users, p.SortField, p.Desc)

	rows := make([]Row, 0, len(users))

	for _, u := range users {
		roles, err := s.idp.RealmRolesOf(ctx, u.ID)
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{
			ID:               u.ID,
			Username:         u.Username,
			Email:            u.Email,
			FirstName:        u.FirstName,
			Enabled:          u.Enabled,
			CreatedTimestamp: u.CreatedTimestamp,
			Roles:            roleNames(roles),
		})
	}

	return &Listing{
		RecordsTotal:    len(allUsers),
		RecordsFiltered: len(rows),
		Data:            rows,
	}, nil
}

// ByID returns one user with their realm role names.
func (s *Service) ByID(ctx context.Context, id string) (*Detail, error) {
	user, err := s.idp.GetUser(ctx, id)
	if err != nil {
		if idp.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}

		return nil, err
	}

	roles, err := s.idp.RealmRolesOf(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{User: *user, Roles: roleNames(roles)}, nil
}

// CreateParams is the input of the create workflow.
type CreateParams struct {
	Username        string
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	// Status is the initial account state, "1" for enabled.
	Status string
	// RoleID is the provider's realm role id to assign.
	RoleID string
}

// Create runs the full user creation workflow: confirmation check, uniqueness
// check, provider record, local reference row, role assignment, welcome mail.
// If any step after the provider record fails, the provider user and the local
// row are removed again (best effort) before the error is returned.
func (s *Service) Create(ctx context.Context, params CreateParams, creator string) (*idp.User, error) {
	if params.Password != params.ConfirmPassword {
		return nil, apperr.ErrPasswordsDoNotMatch
	}

	existing, err := s.idp.UsersByUsername(ctx, params.Username)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		return nil, apperr.ErrUserAlreadyExists
	}

	record := idp.CreateUser{
		Username:  params.Username,
		Email:     params.Email,
		FirstName: params.Name,
		Enabled:   params.Status == "1",
		Attributes: map[string][]string{
			"created_by": {creator},
		},
		Credentials: []idp.Credential{
			{Type: "password", Value: params.Password, Temporary: false},
		},
	}

	if err := s.idp.CreateUserRecord(ctx, record); err != nil {
		return nil, failedDependency(err)
	}

	// The provider does not return the new record, so look it up by username
	// to learn the id it assigned.
	created, err := s.idp.UsersByUsername(ctx, params.Username)
	if err != nil || len(created) == 0 {
		return nil, apperr.ErrUserNotFound.WithMessage("Failed to retrieve created user")
	}

	user := created[0]

	role, err := s.idp.GetRoleByID(ctx, params.RoleID)
	if err != nil {
		s.compensate(ctx, user.ID)

		return nil, apperr.ErrRoleNotFound
	}

	if err := s.persistReference(ctx, user.ID, role.Name, creator); err != nil {
		s.compensate(ctx, user.ID)

		return nil, err
	}

	if err := s.idp.AssignRealmRole(ctx, user.ID, *role); err != nil {
		s.compensate(ctx, user.ID)

		return nil, apperr.ErrRoleAssignFailed
	}

	go s.mailer.SendWelcome(params.Email, params.Username, params.Password)

	return &user, nil
}

// persistReference inserts the local reference row bound to the local role
// mirroring the assigned realm role. The role row is created on first use.
func (s *Service) persistReference(ctx context.Context, referenceKey, roleName, creator string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := models.Role{Name: roleName, Active: true, CreatedBy: creator}
		if err := tx.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return err
		}

		ref := models.UserReference{
			ReferenceKey: referenceKey,
			RoleID:       role.ID,
			CreatedBy:    creator,
		}

		return tx.Create(&ref).Error
	})
}

// compensate undoes a partially completed creation: the provider user and any
// local reference row are removed. Failures are only logged, the original
// error still wins.
func (s *Service) compensate(ctx context.Context, referenceKey string) {
	if err := s.idp.DeleteUser(ctx, referenceKey); err != nil {
		log.Error().Err(err).Str("user_id", referenceKey).Msg("failed to undo provider user creation")
	}

	err := s.db.WithContext(ctx).
		Where("reference_key = ?", referenceKey).
		Delete(&models.UserReference{}).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", referenceKey).Msg("failed to undo local reference row")
	}
}

// UpdateParams is the input of the update workflow. Empty password and role
// fields leave the respective state untouched.
type UpdateParams struct {
	Name            string
	Email           string
	Status          string
	Password        string
	ConfirmPassword string
	RoleID          string
}

// Update pushes a partial profile update, optionally rotates the password and
// optionally replaces the user's role mappings with a single realm role.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams, updater string) error {
	if _, err := s.idp.GetUser(ctx, id); err != nil {
		if idp.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}

		return err
	}

	enabled := params.Status == "1"

	update := idp.UserUpdate{
		FirstName: &params.Name,
		Email:     &params.Email,
		Enabled:   &enabled,
		Attributes: map[string][]string{
			"updated_by": {updater},
		},
	}

	if err := s.idp.UpdateUser(ctx, id, update); err != nil {
		return failedDependency(err)
	}

	if strings.TrimSpace(params.Password) != "" && params.Password == params.ConfirmPassword {
		if err := s.idp.ResetPassword(ctx, id, params.Password, false); err != nil {
			return failedDependency(err)
		}
	}

	if params.RoleID != "" {
		if err := s.replaceRole(ctx, id, params.RoleID, updater); err != nil {
			return err
		}
	}

	return nil
}

// replaceRole removes every current role mapping and assigns the given realm
// role, keeping the local reference row in step.
func (s *Service) replaceRole(ctx context.Context, id, roleID, updater string) error {
	role, err := s.idp.GetRoleByID(ctx, roleID)
	if err != nil {
		return apperr.ErrRoleNotFound
	}

	if err := s.idp.ClearRoleMappings(ctx, id); err != nil {
		return failedDependency(err)
	}

	if err := s.idp.AssignRealmRole(ctx, id, *role); err != nil {
		return failedDependency(err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		localRole := models.Role{Name: role.Name, Active: true, CreatedBy: updater}
		if err := tx.Where(models.Role{Name: role.Name}).FirstOrCreate(&localRole).Error; err != nil {
			return err
		}

		return tx.Model(&models.UserReference{}).
			Where("reference_key = ?", id).
			Update("role_id", localRole.ID).Error
	})
}

// Deactivate disables the user's account.
func (s *Service) Deactivate(ctx context.Context, id, updater string) error {
	return s.setEnabled(ctx, id, false, updater)
}

// Activate re-enables the user's account.
func (s *Service) Activate(ctx context.Context, id, updater string) error {
	return s.setEnabled(ctx, id, true, updater)
}

func (s *Service) setEnabled(ctx context.Context, id string, enabled bool, updater string) error {
	if _, err := s.idp.GetUser(ctx, id); err != nil {
		if idp.IsNotFound(err) {
			return apperr.ErrUserNotFound
		}

		return err
	}

	return s.idp.SetEnabled(ctx, id, enabled, updater)
}

// GenerateClientSecret rotates the secret of the given provider client.
func (s *Service) GenerateClientSecret(ctx context.Context, clientID string) (*idp.ClientSecret, error) {
	secret, err := s.idp.RegenerateClientSecret(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return secret, nil
}

// sortUsers orders the page in memory on the whitelisted field. The provider
// cannot sort its listing itself.
func sortUsers(users []idp.User, field string, desc bool) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if desc {
			a, b = b, a
		}

		if field == "createdTimestamp" {
			return a.CreatedTimestamp < b.CreatedTimestamp
		}

		return strings.ToLower(userField(a, field)) < strings.ToLower(userField(b, field))
	})
}

func userField(u idp.User, field string) string {
	switch field {
	case "email":
		return u.Email
	case "firstName":
		return u.FirstName
	case "lastName":
		return u.LastName
	default:
		return u.Username
	}
}

func roleNames(roles []idp.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}

	return names
}

// failedDependency maps a provider rejection onto the failed-dependency error,
// attaching the upstream message; transport failures stay internal errors.
func failedDependency(err error) error {
	var reqErr *idp.RequestError
	if errors.As(err, &reqErr) && reqErr.Status != 0 {
		return apperr.ErrFailedDependency.WithMessage(reqErr.Body)
	}

	return err
}
