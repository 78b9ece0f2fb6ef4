// Package pages loads gateway data for each console page and shapes it into
// view models. Every mutation re-fetches the page it was issued from; no
// state is patched locally.
package pages

import (
	"strings"
	"time"

	"gwconsole/internal/gateway"
)

// Notice is the inline error or success text shown above a page.
type Notice struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func errorText(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func normalizeSortDir(dir gateway.SortDir) gateway.SortDir {
	if gateway.SortDir(strings.ToLower(string(dir))) == gateway.SortAsc {
		return gateway.SortAsc
	}
	return gateway.SortDesc
}

func oneOf(value string, allowed []string, fallback string) string {
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}
