package match

import (
	"context"
	"math"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
	"github.com/arnavasoni/tango/internal/similarity"
)

// genericMatch is the party/invoice correlation layer shared by every
// matcher: invoice-number membership (optional), shipper-name similarity and
// consignee name/address similarity against the configured thresholds.
// Scorer failures degrade to a zero score and are recorded in the evidence.
func genericMatch(ctx context.Context, cfg Config, awb *model.AirwayBillRecord, inv *model.InvoiceRecord, checkInvoice bool) (bool, model.Evidence) {
	ev := model.Evidence{}

	invoiceOK := true
	if checkInvoice {
		invoiceOK = inSet(awbInvoiceSet(awb), normalize.Digits(inv.InvoiceNumber))
		ev["invoice_match"] = invoiceOK
	} else {
		ev["invoice_match"] = "skipped"
	}

	supplierScore := score(ctx, cfg.NameScorer, awb.ShipperName, inv.SupplierName, ev)
	consigneeScore := score(ctx, cfg.semantic(), awb.ConsigneeName, inv.ConsigneeName, ev)
	addressScore := score(ctx, cfg.semantic(), awb.ConsigneeAddress, inv.ConsigneeAddress, ev)

	ev["supplier_score"] = round2(supplierScore)
	ev["consignee_score"] = round2(consigneeScore)
	ev["address_score"] = round2(addressScore)

	matched := invoiceOK &&
		supplierScore >= cfg.Thresholds.Supplier &&
		consigneeScore >= cfg.Thresholds.Consignee &&
		addressScore >= cfg.Thresholds.Address

	return matched, ev
}

func score(ctx context.Context, s similarity.Scorer, a, b string, ev model.Evidence) float64 {
	if a == "" || b == "" {
		return 0
	}
	v, err := s.Score(ctx, a, b)
	if err != nil {
		ev["scorer_error"] = err.Error()
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
