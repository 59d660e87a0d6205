// Package health provides the operational endpoints: liveness, readiness and
// metrics.
package health

import (
	"sync/atomic"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler"
)

// CheckAlivePath is excluded from the access log.
const CheckAlivePath = "/checkalive"

// Service provides the operational handlers.
type Service struct {
	db    *gorm.DB
	idp   *idp.Client
	alive *atomic.Bool
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. These stay outside the auth middleware so load
// balancers and the metrics scraper can reach them.
func (s *Service) Init(app *fiber.App, db *gorm.DB, client *idp.Client, alive *atomic.Bool) {
	if app == nil || db == nil || client == nil {
		log.Fatal().Msg(handler.ErrNilACFatalLogMsg)
		return
	}

	s.db = db
	s.idp = client
	s.alive = alive

	app.Get(CheckAlivePath, s.CheckAlive)
	app.Get("/checkready", s.CheckReady)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// CheckAlive reports whether the process accepts traffic. During graceful
// shutdown it flips to 503 so the load balancer drains this instance.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if s.alive != nil && !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// CheckReady probes the database and the identity provider.
func (s *Service) CheckReady(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}

	if err != nil {
		log.Error().Err(err).Msg("readiness: database probe failed")

		return c.Status(fiber.StatusServiceUnavailable).SendString("database unavailable")
	}

	if err := s.idp.CheckReady(c.Context()); err != nil {
		log.Error().Err(err).Msg("readiness: identity provider probe failed")

		return c.Status(fiber.StatusServiceUnavailable).SendString("identity provider unavailable")
	}

	return c.SendString("OK")
}
