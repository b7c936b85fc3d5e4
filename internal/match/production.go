package match

import (
	"context"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// MBAGProduction reconciles Germany production-parts shipments. SINGLE scope
// only: one invoice per AWB, with a container cross-check that falls back to
// the AWB's other-reference-numbers list.
type MBAGProduction struct {
	cfg Config
}

// NewMBAGProduction creates the MBAG Production Parts matcher.
func NewMBAGProduction(cfg Config) *MBAGProduction {
	return &MBAGProduction{cfg: cfg}
}

// Category implements Matcher.
func (m *MBAGProduction) Category() model.Category {
	return model.CategoryMBAGProductionParts
}

// Match implements Matcher.
func (m *MBAGProduction) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, _ []*model.InvoiceRecord) model.MatchResult {
	matched, ev := genericMatch(ctx, m.cfg, awb, inv, true)

	piecesMatch := piecesEqual(awb, inv)
	weightMatch := m.cfg.Tolerance.WeightsEqual(
		normalize.Weight(awb.GrossWeight.String()),
		normalize.Weight(inv.GrossWeight.String()),
	)
	containerMatch := containerMatches(awb, inv)

	ev["pieces_match"] = piecesMatch
	ev["weight_match"] = weightMatch
	ev["container_match"] = containerMatch

	return model.MatchResult{
		Matched:  matched && piecesMatch && weightMatch && containerMatch,
		Scope:    model.ScopeSingle,
		Evidence: ev,
	}
}

// containerMatches checks the invoice container against the AWB container,
// falling back to the AWB's other-reference-numbers list. An invoice without
// a container number fails the check.
func containerMatches(awb *model.AirwayBillRecord, inv *model.InvoiceRecord) bool {
	if normalize.Text(inv.ContainerNumber) == "" {
		return false
	}
	if textEqual(awb.ContainerNumber, inv.ContainerNumber) {
		return true
	}
	for _, ref := range awb.OtherReferenceNumbers {
		if textEqual(ref, inv.ContainerNumber) {
			return true
		}
	}
	return false
}
