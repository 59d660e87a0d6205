// Package role provides handlers for managing realm roles.
package role

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/role"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler"
	authmw "github.com/GoRealm-Admin/GoRealm-Admin/internal/web/middleware/auth"
)

// Path is the base path for role management.
const Path = "/role"

// Service provides CRUD operations for roles.
type Service struct {
	roles     *role.Service
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. The static /list route is registered before the
// parameterized one so it is not captured as an id.
func (s *Service) Init(app *fiber.App, svc *role.Service, protected fiber.Handler) {
	if app == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACFatalLogMsg)
		return
	}

	s.roles = svc
	s.validator = validator.New()

	app.Get(Path, protected, s.List)
	app.Post(Path, protected, s.Create)
	app.Get(Path+"/list", protected, s.ListAll)
	app.Get(Path+"/:id", protected, s.ByID)
	app.Put(Path+"/:id", protected, s.Update)
}

// List returns one page of roles.
func (s *Service) List(c *fiber.Ctx) error {
	listing, err := s.roles.List(c.Context(), role.ListParams{
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", 10),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
	})
	if err != nil {
		return err
	}

	return handler.OK(c, "Role fetched successfully", listing)
}

// ListAll returns every role reduced to id and name.
func (s *Service) ListAll(c *fiber.Ctx) error {
	items, err := s.roles.ListAll(c.Context())
	if err != nil {
		return err
	}

	return handler.OK(c, "Role list fetched successfully", items)
}

// ByID returns a single role.
func (s *Service) ByID(c *fiber.Ctx) error {
	r, err := s.roles.ByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return handler.OK(c, "Role fetched successfully", r)
}

type createRequest struct {
	Name        string `json:"name" validate:"required,max=60"`
	Description string `json:"description" validate:"required,max=255"`
}

// Create adds a new realm role.
func (s *Service) Create(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationError(err)
	}

	err := s.roles.Create(c.Context(), role.CreateParams{
		Name:        req.Name,
		Description: req.Description,
	}, identity.Name)
	if err != nil {
		return err
	}

	return handler.OK(c, "Role created successfully", nil)
}

type updateRequest struct {
	Name        string `json:"name" validate:"omitempty,max=60"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// Update merges the given fields into the role.
func (s *Service) Update(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationError(err)
	}

	err := s.roles.Update(c.Context(), c.Params("id"), role.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
	}, identity.Name)
	if err != nil {
		return err
	}

	return handler.OK(c, "Role updated successfully", nil)
}
