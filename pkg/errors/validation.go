package errors

import (
	"math"
	"unicode/utf8"
)

// MaxDigits bounds the length of a seed. Every render pass is linear in the
// seed length, but a megabyte of digits would still stall a frame.
const MaxDigits = 1 << 20

// ValidateDigits checks that s consists only of ASCII decimal digits.
// An empty string is valid and renders as an empty avatar.
func ValidateDigits(s string) error {
	if len(s) > MaxDigits {
		return New(ErrCodeInvalidDigits, "seed too long (%d digits, max %d)", len(s), MaxDigits)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}
		if c >= utf8.RuneSelf {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return New(ErrCodeInvalidDigits, "non-digit %q at position %d", r, i)
		}
		return New(ErrCodeInvalidDigits, "non-digit %q at position %d", c, i)
	}
	return nil
}

// ValidateFraction checks that v is a finite number in (0, 1].
// It is used for the ring size fractions of the configuration.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", name)
	}
	if v <= 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in (0, 1], got %g", name, v)
	}
	return nil
}

// ValidateFormat checks a format name against the set of allowed names.
func ValidateFormat(format string, allowed map[string]bool) error {
	if !allowed[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q", format)
	}
	return nil
}
