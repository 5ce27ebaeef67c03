// Package helpers holds the small pure functions shared by the auth
// screens and the table engine: email shape validation, display date
// formatting and upload filename generation.
package helpers

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"time"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the address has a plausible
// local@domain.tld shape. It is a gate for obvious typos, not an
// RFC 5322 validator.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// FormatDate renders a Unix-milliseconds timestamp as "Jan 2, 2006".
// Zero or negative timestamps render as the empty string, so unset
// updatedAt columns stay blank.
func FormatDate(millis int64) string {
	if millis <= 0 {
		return ""
	}
	return time.UnixMilli(millis).UTC().Format("Jan 2, 2006")
}

// GenerateFilename returns a collision-resistant name for uploaded
// blobs: two random base-36 runs joined with the current Unix-millis
// timestamp.
func GenerateFilename() string {
	return fmt.Sprintf("%s%s-%d", randomBase36(), randomBase36(), time.Now().UnixMilli())
}

func randomBase36() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}

// Capitalize upper-cases the first rune and leaves the rest unchanged.
// This is the table display rule for string cells.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
