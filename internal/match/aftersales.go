package match

import (
	"context"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// MBAGAfterSales reconciles Germany after-sales-parts shipments. These AWBs
// routinely reference several invoices, so the matcher is group-capable:
// with more than one distinct invoice number it compares the AWB totals
// against the sum over every referenced invoice.
type MBAGAfterSales struct {
	cfg Config
}

// NewMBAGAfterSales creates the MBAG After Sales Parts matcher.
func NewMBAGAfterSales(cfg Config) *MBAGAfterSales {
	return &MBAGAfterSales{cfg: cfg}
}

// Category implements Matcher.
func (m *MBAGAfterSales) Category() model.Category {
	return model.CategoryMBAGAfterSalesParts
}

// Match implements Matcher.
func (m *MBAGAfterSales) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, all []*model.InvoiceRecord) model.MatchResult {
	if groupScope(awb) {
		return groupCheck(awb, all, m.cfg.Tolerance)
	}

	if !inSet(awbInvoiceSet(awb), normalize.Digits(inv.InvoiceNumber)) {
		return model.MatchResult{
			Scope:    model.ScopeSingle,
			Evidence: model.Evidence{"reason": "invoice_not_in_awb"},
		}
	}

	matched, ev := genericMatch(ctx, m.cfg, awb, inv, true)

	piecesMatch := piecesEqual(awb, inv)
	weightMatch := m.cfg.Tolerance.WeightsEqual(
		normalize.Weight(awb.GrossWeight.String()),
		normalize.Weight(inv.GrossWeight.String()),
	)

	ev["mode"] = string(model.ScopeSingle)
	ev["pieces_match"] = piecesMatch
	ev["weight_match"] = weightMatch

	return model.MatchResult{
		Matched:  matched && piecesMatch && weightMatch,
		Scope:    model.ScopeSingle,
		Evidence: ev,
	}
}
