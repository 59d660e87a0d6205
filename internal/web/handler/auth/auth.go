// Package auth provides the session endpoints: login, token refresh, password
// change and the caller's effective menu.
package auth

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/authn"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/menu"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler"
	authmw "github.com/GoRealm-Admin/GoRealm-Admin/internal/web/middleware/auth"
)

// Path is the base path for the session endpoints.
const Path = "/auth"

// Service provides the session handlers.
type Service struct {
	authn     *authn.Service
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. Login is the only unprotected route.
func (s *Service) Init(app *fiber.App, svc *authn.Service, protected fiber.Handler) {
	if app == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACFatalLogMsg)
		return
	}

	s.authn = svc
	s.validator = validator.New()

	app.Post(Path+"/login", s.Login)
	app.Post(Path+"/refresh", protected, s.Refresh)
	app.Put(Path+"/change-password", protected, s.ChangePassword)
	app.Get(Path+"/menu", protected, s.Menu)
}

type loginRequest struct {
	Code        string `json:"code" validate:"required,max=150"`
	RedirectURI string `json:"redirectUri" validate:"required,max=150"`
}

// Login redeems the authorization code for a token set.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationError(err)
	}

	session, err := s.authn.Login(c.Context(), req.Code, req.RedirectURI)
	if err != nil {
		return err
	}

	return handler.OK(c, "Login Successful", session)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Refresh exchanges a refresh token for a new token set.
func (s *Service) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationError(err)
	}

	session, err := s.authn.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return handler.OK(c, "Refresh Token Successful", session)
}

type changePasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=50"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ChangePassword sets a new password for the caller.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return apperr.ErrForbidden
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationError(err)
	}

	err := s.authn.ChangePassword(c.Context(), identity.ID, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return err
	}

	return handler.OK(c, "Change Password Successful", nil)
}

// Menu returns the caller's effective navigation tree. A caller without a
// local reference row gets an empty forest.
func (s *Service) Menu(c *fiber.Ctx) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return apperr.ErrForbidden
	}

	tree, err := s.authn.MenuForSubject(c.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tree = make([]*menu.Node, 0)
		} else {
			return err
		}
	}

	return handler.OK(c, "Menu fetched successfully", tree)
}
