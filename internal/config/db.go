package config

// DB holds the database configuration settings.
type DB struct {
	Engine   string // postgres, mysql or sqlite
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
