// Package daemon is the composition root: it opens the database, builds the
// identity provider client and the mailer, and hands everything to the web
// service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/config"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/db/dsn"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/db/models"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/idp"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/mailer"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Menu{},
		&models.Role{},
		&models.RoleMenu{},
		&models.UserReference{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	idpClient := idp.New(&cfg.IdP)
	m := mailer.New(&cfg.SMTP, cfg.IdP.LoginURL)

	if !m.Enabled() {
		log.Warn().Msg("no SMTP host configured, mail notifications are disabled")
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, idpClient, m),
	}
}

// openDialector selects the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.Engine {
	case "postgres":
		return gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}
