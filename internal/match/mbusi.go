package match

import (
	"context"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// MBUSI reconciles US plant shipments. Correlation is by HAWB against the
// invoice container number rather than invoice prefix, so the generic layer
// skips the invoice-number check; group shipments aggregate as usual.
type MBUSI struct {
	cfg Config
}

// NewMBUSI creates the MBUSI matcher.
func NewMBUSI(cfg Config) *MBUSI {
	return &MBUSI{cfg: cfg}
}

// Category implements Matcher.
func (m *MBUSI) Category() model.Category {
	return model.CategoryMBUSI
}

// Match implements Matcher.
func (m *MBUSI) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, all []*model.InvoiceRecord) model.MatchResult {
	if groupScope(awb) {
		return groupCheck(awb, all, m.cfg.Tolerance)
	}

	set := awbInvoiceSet(awb)
	if len(set) > 0 && !inSet(set, normalize.Digits(inv.InvoiceNumber)) {
		return model.MatchResult{
			Scope:    model.ScopeSingle,
			Evidence: model.Evidence{"reason": "invoice_not_in_awb"},
		}
	}

	matched, ev := genericMatch(ctx, m.cfg, awb, inv, false)

	hawbMatch := textEqual(awb.HAWB, inv.ContainerNumber)
	piecesMatch := piecesEqual(awb, inv)
	weightMatch := m.cfg.Tolerance.WeightsEqual(
		normalize.Weight(awb.GrossWeight.String()),
		normalize.Weight(inv.GrossWeight.String()),
	)

	ev["mode"] = string(model.ScopeSingle)
	ev["hawb_match"] = hawbMatch
	ev["pieces_match"] = piecesMatch
	ev["weight_match"] = weightMatch

	return model.MatchResult{
		Matched:  matched && hawbMatch && piecesMatch && weightMatch,
		Scope:    model.ScopeSingle,
		Evidence: ev,
	}
}
