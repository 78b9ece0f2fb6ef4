package pages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gwconsole/internal/gateway"
)

const (
	Placeholder = "—"
	Infinity    = "∞"
	Unlimited   = "Unlimited"

	dateLayout      = "02/01/2006"
	logTimeLayout   = "Jan 02, 15:04:05"
	usageDateLayout = "2006-01-02"
)

// FormatDate renders a gateway timestamp as DD/MM/YYYY, or the placeholder.
func FormatDate(value *string) string {
	if value == nil {
		return Placeholder
	}
	t, ok := gateway.ParseTimestamp(*value)
	if !ok {
		return Placeholder
	}
	return t.Format(dateLayout)
}

// ExpiryText is "Unlimited" without an expiry, otherwise the date with an
// " (expired)" suffix once it has passed.
func ExpiryText(expiresAt *string, now time.Time) string {
	if expiresAt == nil || *expiresAt == "" {
		return Unlimited
	}
	t, ok := gateway.ParseTimestamp(*expiresAt)
	if !ok {
		return *expiresAt
	}
	text := t.Format(dateLayout)
	if t.Before(now) {
		text += " (expired)"
	}
	return text
}

func QuotaText(quota *int64) string {
	if quota == nil {
		return Infinity
	}
	return fmt.Sprintf("%d", *quota)
}

// FormatNumber abbreviates large counts: 1234 -> 1.2K, 3400000 -> 3.4M.
func FormatNumber(n int64) string {
	abs := math.Abs(float64(n))
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// ResponseTime renders milliseconds below one second and seconds above.
func ResponseTime(ms *float64) string {
	if ms == nil || *ms == 0 {
		return Placeholder
	}
	if *ms < 1000 {
		return fmt.Sprintf("%.0fms", *ms)
	}
	return fmt.Sprintf("%.2fs", *ms/1000)
}

// PrettyBody indents a JSON body with two spaces; anything else is returned
// unchanged.
func PrettyBody(body string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(body), "", "  "); err != nil {
		return body
	}
	return out.String()
}

// LogTimestamp falls back to the raw value when it cannot be parsed.
func LogTimestamp(value string) string {
	if value == "" {
		return Placeholder
	}
	t, ok := gateway.ParseTimestamp(value)
	if !ok {
		return value
	}
	return t.Format(logTimeLayout)
}

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantNeutral Variant = "neutral"
)

func StatusVariant(status int) Variant {
	switch {
	case status >= 200 && status < 300:
		return VariantSuccess
	case status >= 400:
		return VariantError
	default:
		return VariantNeutral
	}
}

// Breadcrumb labels a user by name, then email, then id.
func Breadcrumb(user *gateway.User, fallbackID string) string {
	if user != nil {
		if user.Name != "" {
			return user.Name
		}
		if user.Email != nil && *user.Email != "" {
			return *user.Email
		}
		if user.ID != "" {
			return user.ID
		}
	}
	if fallbackID != "" {
		return fallbackID
	}
	return "User"
}

func optional(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
