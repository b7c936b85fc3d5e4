// Package similarity provides the string similarity scorers the category
// matchers use to compare party names and addresses. Scores are on a 0-100
// scale. Scorers are injected into the matchers at construction; the caller
// owns their lifecycle.
package similarity

import "context"

// Scorer computes a 0-100 similarity score between two short text fields.
type Scorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
}

// Thresholds holds the minimum scores the generic match layer requires.
// The exact values vary across rule revisions, so they are configuration
// rather than constants.
type Thresholds struct {
	Supplier  float64
	Consignee float64
	Address   float64
}

// DefaultThresholds returns the thresholds the production rule set uses.
func DefaultThresholds() Thresholds {
	return Thresholds{Supplier: 85, Consignee: 85, Address: 75}
}
