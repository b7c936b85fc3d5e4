package match

import (
	"context"
	"strings"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// APAC reconciles parts shipments routed through the Singapore logistics
// hub: 1100-prefixed invoices, group-capable like the other parts lanes.
type APAC struct {
	cfg Config
}

// NewAPAC creates the MB Parts Logistics APAC matcher.
func NewAPAC(cfg Config) *APAC {
	return &APAC{cfg: cfg}
}

// Category implements Matcher.
func (m *APAC) Category() model.Category {
	return model.CategoryMBPartsAPAC
}

// Match implements Matcher.
func (m *APAC) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, all []*model.InvoiceRecord) model.MatchResult {
	if groupScope(awb) {
		return groupCheck(awb, all, m.cfg.Tolerance)
	}

	num := normalize.Digits(inv.InvoiceNumber)
	set := awbInvoiceSet(awb)
	if len(set) > 0 && !inSet(set, num) {
		return model.MatchResult{
			Scope:    model.ScopeSingle,
			Evidence: model.Evidence{"reason": "invoice_not_in_awb"},
		}
	}

	matched, ev := genericMatch(ctx, m.cfg, awb, inv, true)

	prefixMatch := strings.HasPrefix(num, "1100")
	piecesMatch := piecesEqual(awb, inv)
	weightMatch := m.cfg.Tolerance.WeightsEqual(
		normalize.Weight(awb.GrossWeight.String()),
		normalize.Weight(inv.GrossWeight.String()),
	)

	ev["mode"] = string(model.ScopeSingle)
	ev["invoice_prefix_1100"] = prefixMatch
	ev["pieces_match"] = piecesMatch
	ev["weight_match"] = weightMatch

	return model.MatchResult{
		Matched:  matched && prefixMatch && piecesMatch && weightMatch,
		Scope:    model.ScopeSingle,
		Evidence: ev,
	}
}
