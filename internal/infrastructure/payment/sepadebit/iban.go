package sepadebit

import (
	"errors"
	"strings"
)

var (
	ErrIBANFormat   = errors.New("enter a valid IBAN")
	ErrIBANChecksum = errors.New("the IBAN checksum is wrong")
)

// NormalizeIBAN strips spaces and upper-cases the input.
func NormalizeIBAN(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// ValidateIBAN checks the length bounds, the character set and the ISO 13616
// mod-97 checksum. Country-specific lengths are not checked.
func ValidateIBAN(raw string) error {
	iban := NormalizeIBAN(raw)
	if len(iban) < 15 || len(iban) > 34 {
		return ErrIBANFormat
	}
	for i, r := range iban {
		switch {
		case i < 2 && (r < 'A' || r > 'Z'):
			return ErrIBANFormat
		case i >= 2 && i < 4 && (r < '0' || r > '9'):
			return ErrIBANFormat
		case (r < '0' || r > '9') && (r < 'A' || r > 'Z'):
			return ErrIBANFormat
		}
	}

	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, r := range rearranged {
		if r >= 'A' {
			v := int(r-'A') + 10
			remainder = (remainder*100 + v) % 97
		} else {
			remainder = (remainder*10 + int(r-'0')) % 97
		}
	}
	if remainder != 1 {
		return ErrIBANChecksum
	}
	return nil
}

// MaskIBAN keeps the country code and the last four characters.
func MaskIBAN(raw string) string {
	iban := NormalizeIBAN(raw)
	if len(iban) <= 8 {
		return iban
	}
	return iban[:4] + strings.Repeat("*", len(iban)-8) + iban[len(iban)-4:]
}
