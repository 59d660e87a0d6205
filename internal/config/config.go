// Package config handles input from etc/*.toml files
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ReadConfig from config file.
// Every key can be overridden from the environment with the
// GO_REALM_ADMIN prefix, for example GO_REALM_ADMIN_WEBSERVER_PORT.
func ReadConfig(path string) (Config, error) {
	var c Config

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("GO_REALM_ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(c)
}

// validate minimal config settings.
// Validates only the params without which the service can not come up at all.
func validate(c Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.IdP.BaseURL == "" {
		return errors.Wrap(ErrEmptyIdPBaseURL, invalidErrMessage)
	}

	if c.IdP.Realm == "" {
		return errors.Wrap(ErrEmptyIdPRealm, invalidErrMessage)
	}

	return nil
}
