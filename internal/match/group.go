package match

import (
	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
	"github.com/shopspring/decimal"
)

// groupScope reports whether the AWB references more than one distinct
// invoice number, which switches group-capable matchers to GROUP scope.
func groupScope(awb *model.AirwayBillRecord) bool {
	return len(awbInvoiceSet(awb)) > 1
}

// groupCheck aggregates every candidate invoice referenced by the AWB and
// compares the summed piece counts and weights against the AWB's own totals:
// exact integer equality for pieces, tolerance-band equality for weight.
func groupCheck(awb *model.AirwayBillRecord, all []*model.InvoiceRecord, tol Tolerance) model.MatchResult {
	set := awbInvoiceSet(awb)

	var related []string
	totalPieces := 0
	totalWeight := decimal.Zero
	for _, inv := range all {
		num := normalize.Digits(inv.InvoiceNumber)
		if !inSet(set, num) {
			continue
		}
		related = append(related, num)
		totalPieces += inv.Pieces
		totalWeight = totalWeight.Add(normalize.Weight(inv.GrossWeight.String()))
	}

	if len(related) == 0 {
		return model.MatchResult{
			Scope:    model.ScopeGroup,
			Evidence: model.Evidence{"reason": "no_related_invoices"},
		}
	}

	piecesMatch := totalPieces == awb.Pieces
	weightMatch := tol.WeightsEqual(normalize.Weight(awb.GrossWeight.String()), totalWeight)

	return model.MatchResult{
		Matched: piecesMatch && weightMatch,
		Scope:   model.ScopeGroup,
		Evidence: model.Evidence{
			"mode":          string(model.ScopeGroup),
			"invoice_count": len(related),
			"total_pieces":  totalPieces,
			"total_weight":  totalWeight.String(),
			"pieces_match":  piecesMatch,
			"weight_match":  weightMatch,
		},
		RelatedInvoiceNumbers: related,
	}
}
