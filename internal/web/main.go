// Package web wires the Fiber application: middleware, handler packages and
// the lifecycle of the HTTP server.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/authn"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
	fiberlogger "github.com/GoRealm-Admin/GoRealm-Admin/internal/logger/adapter/fiber"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/mailer"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/menu"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/role"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/user"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler"
	authhandler "github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler/auth"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler/health"
	rolehandler "github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler/role"
	userhandler "github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler/user"
	authmw "github.com/GoRealm-Admin/GoRealm-Admin/internal/web/middleware/auth"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, idpClient *idp.Client, m *mailer.Mailer) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if idpClient == nil {
		panic("idp client cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      bodyLimit(cfg),
			ErrorHandler:   errorHandler,
		},
	)

	app.Use(recover.New())

	if cfg.Webserver.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Webserver.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}

	// access logging via zerolog
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: health.CheckAlivePath,
	}))

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	// application services
	menuResolver := menu.NewResolver(db)
	authnService := authn.New(idpClient, db, menuResolver)
	userService := user.New(idpClient, db, m)
	roleService := role.New(idpClient)

	// bearer token middleware guarding everything but login and ops routes
	protected := authmw.New(idpClient)

	// init handlers (they register their own routes)
	health.Handler.Init(app, db, idpClient, &service.alive)
	authhandler.Handler.Init(app, authnService, protected)
	userhandler.Handler.Init(app, userService, protected)
	rolehandler.Handler.Init(app, roleService, protected)

	return service
}

// errorHandler is the single conversion point from Go errors to the response
// envelope. Typed application errors keep their status; fiber routing errors
// keep theirs; anything else is logged and becomes an internal error.
func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return handler.Fail(c, appErr.Status, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return handler.Fail(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")

	return handler.Fail(c, apperr.ErrInternal.Status, apperr.ErrInternal.Message, nil)
}

func bodyLimit(cfg *config.Config) int {
	if cfg.Webserver.BodyLimit > 0 {
		return cfg.Webserver.BodyLimit
	}

	return fiber.DefaultBodyLimit
}
