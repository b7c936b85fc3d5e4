package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Weight parses a gross-weight field into kilograms. It strips "kg"/"kgs"
// unit tokens, then decides between European and plain decimal notation: a
// single comma marks the decimal separator with any periods acting as
// thousands separators ("28.877,56" -> 28877.56, "42,000" -> 42.0); multiple
// commas are thousands separators and are stripped. Unparsable input
// normalizes to zero so comparisons fail closed instead of erroring.
func Weight(raw string) decimal.Decimal {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero
	}

	for _, unit := range []string{"kgs", "kg"} {
		s = strings.ReplaceAll(s, unit, "")
	}
	s = strings.TrimSpace(s)

	if strings.Count(s, ",") == 1 {
		// European format: 28.877,56 -> 28877.56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
