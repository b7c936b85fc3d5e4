package match

import (
	"context"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// MBAGCBU reconciles completely-built-unit vehicle shipments from Germany.
// CBU shipments carry no correlatable invoice prefix; identity is the VIN
// plus order number, so the invoice-number check is skipped in the generic
// layer.
type MBAGCBU struct {
	cfg Config
}

// NewMBAGCBU creates the MBAG CBU matcher.
func NewMBAGCBU(cfg Config) *MBAGCBU {
	return &MBAGCBU{cfg: cfg}
}

// Category implements Matcher.
func (m *MBAGCBU) Category() model.Category {
	return model.CategoryMBAGCBU
}

// Match implements Matcher.
func (m *MBAGCBU) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, _ []*model.InvoiceRecord) model.MatchResult {
	matched, ev := genericMatch(ctx, m.cfg, awb, inv, false)

	vinMatch := textEqual(awb.VIN, inv.VIN)
	orderMatch := textEqual(awb.OrderNo, inv.OrderNo)

	ev["vin_match"] = vinMatch
	ev["order_match"] = orderMatch

	return model.MatchResult{
		Matched:  matched && vinMatch && orderMatch,
		Scope:    model.ScopeSingle,
		Evidence: ev,
	}
}

// MBUSACBU reconciles CBU shipments out of the US plant. It is the MBAG CBU
// logic gated by a shipper-address pre-check: no US mention means an
// immediate fail without evaluating VIN or order number.
type MBUSACBU struct {
	cbu *MBAGCBU
}

// NewMBUSACBU creates the MBUSA CBU matcher.
func NewMBUSACBU(cfg Config) *MBUSACBU {
	return &MBUSACBU{cbu: NewMBAGCBU(cfg)}
}

// Category implements Matcher.
func (m *MBUSACBU) Category() model.Category {
	return model.CategoryMBUSACBU
}

// Match implements Matcher.
func (m *MBUSACBU) Match(ctx context.Context, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, all []*model.InvoiceRecord) model.MatchResult {
	if !normalize.ContainsAny(awb.ShipperAddress, "us", "usa", "united states") {
		return model.MatchResult{
			Scope:    model.ScopeSingle,
			Evidence: model.Evidence{"shipper_add_check": false},
		}
	}

	result := m.cbu.Match(ctx, awb, inv, all)
	result.Evidence["shipper_add_check"] = true
	return result
}
