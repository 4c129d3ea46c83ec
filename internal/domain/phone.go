package domain

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidPhone is returned for numbers that do not reduce to a Russian 7XXXXXXXXXX.
var ErrInvalidPhone = errors.New("invalid phone: expected RU number 7XXXXXXXXXX (11 digits)")

// NormalizeRUPhone keeps the digits of raw and returns them when they form an
// 11-digit number starting with 7. A leading 8 is rewritten to 7.
func NormalizeRUPhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 11 && digits[0] == '8' {
		digits = "7" + digits[1:]
	}
	if len(digits) == 11 && digits[0] == '7' {
		return digits, nil
	}
	return "", ErrInvalidPhone
}
