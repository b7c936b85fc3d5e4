// Package normalize provides the pure text, weight and identifier
// normalizers every classification and matching decision runs through.
// All functions degrade to neutral values on malformed input; they never
// return errors.
package normalize

import "strings"

var dashReplacer = strings.NewReplacer("–", "-", "—", "-")

// Text lower-cases, unifies en/em dashes to plain hyphens and trims
// surrounding whitespace. Idempotent.
func Text(s string) string {
	return strings.TrimSpace(dashReplacer.Replace(strings.ToLower(s)))
}

// ContainsAny reports whether the normalized form of s contains any of the
// given substrings. Substrings are matched as-is and should already be
// lower-case.
func ContainsAny(s string, subs ...string) bool {
	n := Text(s)
	for _, sub := range subs {
		if sub != "" && strings.Contains(n, sub) {
			return true
		}
	}
	return false
}
