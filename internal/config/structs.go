package config

import (
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	IdP       IdP
	SMTP      SMTP
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
	CORSOrigins  string // allowed origins, comma separated, "*" for all
	BodyLimit    int    // request body limit in bytes, 0 for fiber default
}

// IdP holds the identity provider connection settings.
// The admin service account is used for the admin REST API, the frontend
// client for the browser facing authorization-code flow.
type IdP struct {
	BaseURL string // base url of the provider, without trailing slash
	Realm   string // realm aka tenant name

	// Service account credentials used to obtain the admin token.
	AdminClientID string
	AdminUsername string
	AdminPassword string

	// Frontend client used for login code exchange, refresh and introspection.
	FrontendClientID     string
	FrontendClientSecret string

	// LoginURL is the frontend login page linked in the welcome mail.
	LoginURL string

	// TimeoutSeconds for outbound provider calls. 0 means 30 seconds.
	TimeoutSeconds int
}

// SMTP holds the mail relay settings. An empty Host disables mailing.
type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	CC       string
}
