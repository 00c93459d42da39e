// Package card classifies card numbers into the brands the wallet
// recognizes. Classification is prefix-based only; format validation is
// a separate concern (see internal/validation).
package card

import "strings"

type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandCabal      Brand = "cabal"
	BrandNaranja    Brand = "naranja"
	BrandUnknown    Brand = "unknown"
)

// Classify resolves the brand from the numeric prefix. Two-digit
// prefixes take precedence over the single-digit Mastercard ranges, so
// 58/59 resolve to Naranja even though they start with 5. Unrecognized
// input yields BrandUnknown; Classify never fails.
func Classify(cardNumber string) Brand {
	number := stripSpaces(cardNumber)

	switch {
	case strings.HasPrefix(number, "4"):
		return BrandVisa
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return BrandAmex
	case strings.HasPrefix(number, "60"), strings.HasPrefix(number, "61"), strings.HasPrefix(number, "62"):
		return BrandCabal
	case strings.HasPrefix(number, "58"), strings.HasPrefix(number, "59"):
		return BrandNaranja
	case strings.HasPrefix(number, "5"), strings.HasPrefix(number, "2"):
		return BrandMastercard
	default:
		return BrandUnknown
	}
}

// DisplayName maps a brand to its customer-facing label.
func DisplayName(brand Brand) string {
	switch brand {
	case BrandVisa:
		return "Visa"
	case BrandMastercard:
		return "Mastercard"
	case BrandAmex:
		return "American Express"
	case BrandCabal:
		return "Cabal"
	case BrandNaranja:
		return "Naranja"
	default:
		return "Desconocida"
	}
}

// MaskNumber hides all but the last four digits for display.
func MaskNumber(cardNumber string) string {
	number := stripSpaces(cardNumber)
	if len(number) <= 4 {
		return number
	}
	return "**** **** **** " + number[len(number)-4:]
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}
