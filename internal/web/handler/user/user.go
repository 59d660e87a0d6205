// Package user provides handlers for managing users (CRUD) against the
// identity provider.
package user

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/user"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler"
	authmw "github.com/GoRealm-Admin/GoRealm-Admin/internal/web/middleware/auth"
)

// Path is the base path for user management.
const Path = "/user"

// Service provides CRUD operations for users.
type Service struct {
	users     *user.Service
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes, all behind the auth middleware. That includes the
// secret rotation endpoint.
func (s *Service) Init(app *fiber.App, svc *user.Service, protected fiber.Handler) {
	if app == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACFatalLogMsg)
		return
	}

	s.users = svc
	s.validator = validator.New()

	app.Get(Path, protected, s.List)
	app.Post(Path, protected, s.Create)
	app.Get(Path+"/:id", protected, s.ByID)
	app.Put(Path+"/:id", protected, s.Update)
	app.Delete(Path+"/:id", protected, s.Deactivate)
	app.Put("/user-active/:id", protected, s.Activate)
	app.Put("/generate-secret/:id", protected, s.GenerateSecret)
}

// List returns one page of users.
func (s *Service) List(c *fiber.Ctx) error {
	listing, err := s.users.List(c.Context(), user.ListParams{
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", 10),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
		Status: c.Query("status"),
	})
	if err != nil {
		return err
	}

	return handler.OK(c, "User fetched successfully", listing)
}

// ByID returns a single user.
func (s *Service) ByID(c *fiber.Ctx) error {
	detail, err := s.users.ByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return handler.OK(c, "User fetched successfully", detail)
}

type createRequest struct {
	Username        string `json:"username" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Status          string `json:"status" validate:"required,oneof=0 1"`
	RoleID          string `json:"role_id" validate:"required"`
}

// Create runs the user creation workflow.
func (s *Service) Create(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationError(err)
	}

	created, err := s.users.Create(c.Context(), user.CreateParams{
		Username:        req.Username,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Status:          req.Status,
		RoleID:          req.RoleID,
	}, identity.Name)
	if err != nil {
		return err
	}

	return handler.OK(c, "User created successfully", created)
}

type updateRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Status          string `json:"status" validate:"required,oneof=0 1"`
	RoleID          string `json:"role_id"`
}

// Update pushes profile changes, an optional password rotation and an
// optional role replacement.
func (s *Service) Update(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationError(err)
	}

	err := s.users.Update(c.Context(), c.Params("id"), user.UpdateParams{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Status:          req.Status,
		RoleID:          req.RoleID,
	}, identity.Name)
	if err != nil {
		return err
	}

	return handler.OK(c, "User updated successfully", nil)
}

// Deactivate disables the user's account.
func (s *Service) Deactivate(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)

	if err := s.users.Deactivate(c.Context(), c.Params("id"), identity.Name); err != nil {
		return err
	}

	return handler.OK(c, "User deleted successfully", nil)
}

// Activate re-enables the user's account.
func (s *Service) Activate(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)

	if err := s.users.Activate(c.Context(), c.Params("id"), identity.Name); err != nil {
		return err
	}

	return handler.OK(c, "User activated successfully", nil)
}

// GenerateSecret rotates the secret of the given provider client.
func (s *Service) GenerateSecret(c *fiber.Ctx) error {
	secret, err := s.users.GenerateClientSecret(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return handler.OK(c, "Client secret generated successfully", secret)
}
