// Package match implements the per-category reconciliation matchers. Each
// matcher is a pure, total function of its inputs: missing or unparsable
// fields normalize to zero values and fail the relevant check, surfaced in
// the evidence map, never as an error.
package match

import (
	"context"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
	"github.com/arnavasoni/tango/internal/similarity"
)

// Matcher decides whether one AWB reconciles with a candidate invoice
// (SINGLE scope) or with the whole set of invoices it references (GROUP
// scope). The full candidate list is passed so group-capable matchers can
// aggregate.
type Matcher interface {
	Category() model.Category
	Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, all []*model.InvoiceRecord) model.MatchResult
}

// Config carries the injected similarity scorers and the tunable thresholds
// and tolerance every matcher shares.
type Config struct {
	// NameScorer scores shipper/supplier names; edit-distance based.
	NameScorer similarity.Scorer
	// SemanticScorer scores consignee names and addresses. Falls back to
	// NameScorer when nil.
	SemanticScorer similarity.Scorer
	Thresholds     similarity.Thresholds
	Tolerance      Tolerance
}

// DefaultConfig returns a configuration with the pure token scorer and the
// production thresholds and tolerance.
func DefaultConfig() Config {
	return Config{
		NameScorer: similarity.NewTokenScorer(),
		Thresholds: similarity.DefaultThresholds(),
		Tolerance:  DefaultTolerance(),
	}
}

func (c Config) semantic() similarity.Scorer {
	if c.SemanticScorer != nil {
		return c.SemanticScorer
	}
	return c.NameScorer
}

// awbInvoiceSet returns the distinct normalized invoice numbers the AWB
// references, in order.
func awbInvoiceSet(awb *model.AirwayBillRecord) []string {
	return normalize.DigitSet(awb.InvoiceNumbers)
}

func inSet(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// piecesEqual is the exact integer piece-count check shared by the matchers.
func piecesEqual(awb *model.AirwayBillRecord, inv *model.InvoiceRecord) bool {
	return awb.Pieces == inv.Pieces
}

// textEqual compares two identifier fields after text normalization. Two
// empty fields do not compare equal; a missing identifier fails the check.
func textEqual(a, b string) bool {
	na, nb := normalize.Text(a), normalize.Text(b)
	return na != "" && na == nb
}
