package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyIdPBaseURL error if config idp.baseurl is empty.
	ErrEmptyIdPBaseURL = errors.New("toml config idp.baseurl can not be empty")

	// ErrEmptyIdPRealm error if config idp.realm is empty.
	ErrEmptyIdPRealm = errors.New("toml config idp.realm can not be empty")
)
