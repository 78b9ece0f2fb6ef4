package validator

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// emailPattern only checks the local@domain.tld shape.
var emailPattern = regexp.MustCompile(`.+@.+\..+`)

func IsEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsUUID accepts the canonical 8-4-4-4-12 form only.
func IsUUID(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
