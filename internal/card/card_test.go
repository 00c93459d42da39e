package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		cardNumber string
		expected   Brand
	}{
		{"visa", "4111111111111111", BrandVisa},
		{"visa alternate", "4000000000000002", BrandVisa},
		{"mastercard 5", "5555555555554444", BrandMastercard},
		{"mastercard 2-series", "2221000000000009", BrandMastercard},
		{"amex 34", "341111111111111", BrandAmex},
		{"amex 37", "378282246310005", BrandAmex},
		{"cabal 60", "6011111111111111", BrandCabal},
		{"cabal 62", "6271111111111111", BrandCabal},
		{"naranja 58", "5811111111111111", BrandNaranja},
		{"naranja 59", "5911111111111111", BrandNaranja},
		{"unknown", "9999999999999999", BrandUnknown},
		{"empty", "", BrandUnknown},
		{"non-numeric", "invalid", BrandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.cardNumber))
		})
	}
}

func TestClassify_IgnoresSpaces(t *testing.T) {
	assert.Equal(t, BrandVisa, Classify("4111 1111 1111 1111"))
	assert.Equal(t, BrandNaranja, Classify(" 5811 1111 1111 1111 "))
}

func TestClassify_NaranjaBeforeMastercard(t *testing.T) {
	// 58/59 are inside the generic Mastercard "5" range; the longer
	// prefix must win.
	assert.Equal(t, BrandNaranja, Classify("5855555555554444"))
	assert.Equal(t, BrandMastercard, Classify("5755555555554444"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Visa", DisplayName(BrandVisa))
	assert.Equal(t, "Mastercard", DisplayName(BrandMastercard))
	assert.Equal(t, "American Express", DisplayName(BrandAmex))
	assert.Equal(t, "Cabal", DisplayName(BrandCabal))
	assert.Equal(t, "Naranja", DisplayName(BrandNaranja))
	assert.Equal(t, "Desconocida", DisplayName(BrandUnknown))
	assert.Equal(t, "Desconocida", DisplayName(Brand("something-else")))
}

func TestMaskNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskNumber("4111111111111111"))
	assert.Equal(t, "**** **** **** 4444", MaskNumber("5555 5555 5555 4444"))
	assert.Equal(t, "1234", MaskNumber("1234"))
}
