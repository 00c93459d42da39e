// Package validation holds the format checks applied to incoming form
// data before it reaches the services. Checks are format-only: there is
// no Luhn verification and no issuer lookup.
package validation

import (
	"regexp"
	"strings"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// CardNumber accepts exactly 16 digits, ignoring embedded spaces.
func CardNumber(cardNumber string) bool {
	return cardNumberPattern.MatchString(strings.ReplaceAll(cardNumber, " ", ""))
}

// CVV accepts 3 or 4 digits.
func CVV(cvv string) bool {
	return cvvPattern.MatchString(cvv)
}

// Expiry accepts MM/YY with a month in 01-12.
func Expiry(expiry string) bool {
	return expiryPattern.MatchString(expiry)
}

func Email(email string) bool {
	return emailPattern.MatchString(email)
}
