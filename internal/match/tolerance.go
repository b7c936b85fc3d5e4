package match

import "github.com/shopspring/decimal"

// Tolerance is the approximate-equality policy for gross weights. Two policy
// generations exist in the rule set: an absolute band (±1.0 kg) and a
// relative band (within a fraction of the pairwise average). A matcher
// applies whichever is configured; Relative wins when both are set.
type Tolerance struct {
	Absolute decimal.Decimal
	Relative decimal.Decimal
}

// AbsoluteTolerance returns a policy accepting an absolute difference in kg.
func AbsoluteTolerance(kg float64) Tolerance {
	return Tolerance{Absolute: decimal.NewFromFloat(kg)}
}

// RelativeTolerance returns a policy accepting a difference within the given
// fraction of the pairwise average (0.10 = 10%).
func RelativeTolerance(fraction float64) Tolerance {
	return Tolerance{Relative: decimal.NewFromFloat(fraction)}
}

// DefaultTolerance is the current production policy.
func DefaultTolerance() Tolerance {
	return AbsoluteTolerance(1.0)
}

var two = decimal.NewFromInt(2)

// WeightsEqual reports whether two normalized weights are approximately
// equal under this policy. Both weights zero compare equal. The comparison
// is symmetric in its arguments.
func (t Tolerance) WeightsEqual(a, b decimal.Decimal) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}

	diff := a.Sub(b).Abs()

	if t.Relative.IsPositive() {
		avg := a.Add(b).Div(two).Abs()
		return diff.LessThanOrEqual(avg.Mul(t.Relative))
	}

	abs := t.Absolute
	if !abs.IsPositive() {
		abs = decimal.NewFromInt(1)
	}
	return diff.LessThanOrEqual(abs)
}
