package sanitizer

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	reNonDigit  = regexp.MustCompile(`\D`)
	reNonSlug   = regexp.MustCompile(`[^0-9a-z]+`)
	reMultiDash = regexp.MustCompile(`-+`)

	// ErrInvalidPhone is returned for numbers that cannot be normalized
	// to a North American dialable form.
	ErrInvalidPhone = errors.New("invalid phone number")
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndNormalize trims the string and collapses internal whitespace runs
// to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseDashes(s string) string {
	s = reMultiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeSlot reduces a time-slot label to a form safe for use inside a
// record identifier: "9:00" becomes "9-00".
func SanitizeSlot(slot string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reNonSlug.ReplaceAllString(s, "-") },
		collapseDashes,
	}
	return p.Apply(slot)
}

// SanitizeVIN uppercases a VIN and strips surrounding whitespace. VINs are
// treated as opaque identifiers beyond that.
func SanitizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// Digits strips every non-digit rune.
func Digits(s string) string {
	return reNonDigit.ReplaceAllString(s, "")
}

// NormalizePhone converts a customer-entered phone number into E.164 form
// under the North American country-code assumption: ten digits gain a +1
// prefix, eleven digits are accepted only with a leading 1. Anything else
// is rejected.
func NormalizePhone(phone string) (string, error) {
	digits := Digits(phone)

	switch {
	case len(digits) == 10:
		return "+1" + digits, nil
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits, nil
	default:
		return "", ErrInvalidPhone
	}
}
