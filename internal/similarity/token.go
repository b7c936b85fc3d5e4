package similarity

import (
	"context"

	"github.com/arnavasoni/tango/internal/normalize"
)

// TokenScorer is a pure edit-distance scorer. It computes a partial ratio:
// the best Levenshtein ratio of the shorter string against every
// equally-long substring of the longer one, which keeps scores high when one
// party name is a prefix or fragment of the other ("Mercedes-Benz AG" vs
// "Mercedes-Benz AG, Stuttgart").
type TokenScorer struct{}

// NewTokenScorer creates a new token scorer.
func NewTokenScorer() *TokenScorer {
	return &TokenScorer{}
}

// Score implements Scorer. It never returns an error.
func (s *TokenScorer) Score(_ context.Context, a, b string) (float64, error) {
	return PartialRatio(normalize.Text(a), normalize.Text(b)), nil
}

// Ratio returns the Levenshtein similarity of two strings on a 0-100 scale.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	dist := levenshtein(ra, rb)
	return 100 * float64(longest-dist) / float64(longest)
}

// PartialRatio returns the best Ratio of the shorter string against every
// window of the longer string with the same length.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		if len(ra) == len(rb) {
			return 100
		}
		return 0
	}

	shorter, longer := ra, rb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := longer[i : i+len(shorter)]
		if r := Ratio(string(shorter), string(window)); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// levenshtein computes the edit distance with a two-row matrix.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
