package normalize

import (
	"regexp"
	"strings"
)

// VINPattern matches a 17-character vehicle identification number. I, O and
// Q are excluded per the VIN alphabet.
var VINPattern = regexp.MustCompile(`(?i)\b[A-HJ-NPR-Z0-9]{17}\b`)

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips every non-digit character from an identifier. Empty and nil
// inputs normalize to "".
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// DigitSet normalizes a list of identifiers to their digit forms, dropping
// entries that contain no digits at all. Order is preserved and duplicates
// are removed.
func DigitSet(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		d := Digits(id)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// IsVIN reports whether s normalizes to a valid 17-character VIN.
func IsVIN(s string) bool {
	return VINPattern.MatchString(strings.TrimSpace(s))
}
