package match

import (
	"context"
	"strings"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// BBACProduction reconciles Beijing production-parts shipments: invoice
// numbers carry the 150 prefix, and in SINGLE scope the AWB HAWB must match
// the invoice container reference exactly.
type BBACProduction struct {
	cfg Config
}

// NewBBACProduction creates the BBAC Production Parts matcher.
func NewBBACProduction(cfg Config) *BBACProduction {
	return &BBACProduction{cfg: cfg}
}

// Category implements Matcher.
func (m *BBACProduction) Category() model.Category {
	return model.CategoryBBACProductionParts
}

// Match implements Matcher.
func (m *BBACProduction) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, all []*model.InvoiceRecord) model.MatchResult {
	if groupScope(awb) {
		result := groupCheck(awb, all, m.cfg.Tolerance)
		result.Evidence["invoice_prefix_150"] = true
		return result
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

	prefixMatch := strings.HasPrefix(num, "150")
	hawbMatch := textEqual(awb.HAWB, inv.ContainerNumber)
	piecesMatch := piecesEqual(awb, inv)
	weightMatch := m.cfg.Tolerance.WeightsEqual(
		normalize.Weight(awb.GrossWeight.String()),
		normalize.Weight(inv.GrossWeight.String()),
	)

	ev["mode"] = string(model.ScopeSingle)
	ev["invoice_prefix_150"] = prefixMatch
	ev["hawb_match"] = hawbMatch
	ev["pieces_match"] = piecesMatch
	ev["weight_match"] = weightMatch

	return model.MatchResult{
		Matched:  matched && prefixMatch && hawbMatch && piecesMatch && weightMatch,
		Scope:    model.ScopeSingle,
		Evidence: ev,
	}
}

// BBACAfterSales reconciles Beijing after-sales shipments: 1106-prefixed
// invoices with the standard piece/weight checks.
type BBACAfterSales struct {
	cfg Config
}

// NewBBACAfterSales creates the BBAC After Sales Parts matcher.
func NewBBACAfterSales(cfg Config) *BBACAfterSales {
	return &BBACAfterSales{cfg: cfg}
}

// Category implements Matcher.
func (m *BBACAfterSales) Category() model.Category {
	return model.CategoryBBACAfterSalesParts
}

// Match implements Matcher.
func (m *BBACAfterSales) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, all []*model.InvoiceRecord) model.MatchResult {
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

	prefixMatch := strings.HasPrefix(num, "1106")
	piecesMatch := piecesEqual(awb, inv)
	weightMatch := m.cfg.Tolerance.WeightsEqual(
		normalize.Weight(awb.GrossWeight.String()),
		normalize.Weight(inv.GrossWeight.String()),
	)

	ev["mode"] = string(model.ScopeSingle)
	ev["invoice_prefix_1106"] = prefixMatch
	ev["pieces_match"] = piecesMatch
	ev["weight_match"] = weightMatch

	return model.MatchResult{
		Matched:  matched && prefixMatch && piecesMatch && weightMatch,
		Scope:    model.ScopeSingle,
		Evidence: ev,
	}
}
