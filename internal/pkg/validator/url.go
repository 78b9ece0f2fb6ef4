package validator

import (
	"errors"
	"net/url"
)

var (
	ErrURLRequired = errors.New("url is required")
	ErrURLFormat   = errors.New("invalid url format")
	ErrURLScheme   = errors.New("url must start with http:// or https://")
)

// HTTPURL checks that raw is an absolute http or https URL with a host.
func HTTPURL(raw string) error {
	if raw == "" {
		return ErrURLRequired
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ErrURLFormat
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrURLScheme
	}
	if u.Host == "" {
		return ErrURLFormat
	}
	return nil
}
