// Package phone normalizes Kenyan mobile numbers into the canonical
// international form the payment API expects.
package phone

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// CountryCode is the Kenyan international dialling prefix.
const CountryCode = "254"

// ErrInvalid is wrapped by every rejection from Normalize.
var ErrInvalid = errors.New("invalid M-Pesa phone number")

// Accepted input shapes after stripping non-digits:
//
//	07XXXXXXXX   local with leading zero
//	254XXXXXXXXX already international
//	7XXXXXXXX    bare subscriber number
var mobilePattern = regexp.MustCompile(`^(07\d{8}|254\d{9}|7\d{8})$`)

// Clean strips every non-digit character.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether raw is an acceptable mobile number in any of
// the supported input shapes.
func Valid(raw string) bool {
	return mobilePattern.MatchString(Clean(raw))
}

// Normalize converts raw into the canonical 254XXXXXXXXX form.
//
// It is pure and total for valid input; invalid input is rejected with
// ErrInvalid and must never reach the network.
func Normalize(raw string) (string, error) {
	digits := Clean(raw)
	if !mobilePattern.MatchString(digits) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	switch {
	case strings.HasPrefix(digits, CountryCode):
		return digits, nil
	case strings.HasPrefix(digits, "0"):
		return CountryCode + digits[1:], nil
	default:
		return CountryCode + digits, nil
	}
}
