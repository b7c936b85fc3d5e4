package engine

import (
	"context"
	"testing"

	"github.com/arnavasoni/tango/internal/classify"
	"github.com/arnavasoni/tango/internal/match"
	"github.com/arnavasoni/tango/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReconciler() *Reconciler {
	return New(classify.New(), match.NewRegistry(match.DefaultConfig()))
}

func afterSalesAWB(invoiceNumbers []string, pieces int, weight string) *model.AirwayBillRecord {
	return &model.AirwayBillRecord{
		MAWB:             "020-12345675",
		ShipperName:      "Mercedes-Benz AG",
		ShipperAddress:   "Stuttgart, Germany",
		ConsigneeName:    "After Sales-Parts Warehouse",
		ConsigneeAddress: "Singapore",
		InvoiceNumbers:   invoiceNumbers,
		Pieces:           pieces,
		GrossWeight:      model.WeightString(weight),
	}
}

func invoice(number string, pieces int, weight string) *model.InvoiceRecord {
	return &model.InvoiceRecord{
		InvoiceNumber:    number,
		SupplierName:     "Mercedes-Benz AG",
		ConsigneeName:    "After Sales-Parts Warehouse",
		ConsigneeAddress: "Singapore",
		Pieces:           pieces,
		GrossWeight:      model.WeightString(weight),
	}
}

func TestReconcile_GroupResolvedOnce(t *testing.T) {
	awb := afterSalesAWB([]string{"1063194729", "1063938444"}, 10, "250.0")
	candidates := []Candidate{
		{SourceFile: "inv1.pdf", Invoice: invoice("1063194729", 4, "100.0")},
		{SourceFile: "inv2.pdf", Invoice: invoice("1063938444", 6, "150.0")},
		{SourceFile: "inv3.pdf", Invoice: invoice("7777777777", 1, "5.0")},
	}

	report := newReconciler().Reconcile(context.Background(), awb, "awb.pdf", candidates)

	assert.Empty(t, report.Err)
	assert.Equal(t, model.CategoryMBAGAfterSalesParts, report.Category)
	require.Len(t, report.MatchedInvoices, 2)
	assert.Equal(t, "inv1.pdf", report.MatchedInvoices[0].SourceFile)
	assert.Equal(t, "inv2.pdf", report.MatchedInvoices[1].SourceFile)

	// Both entries share the one aggregate evidence map.
	assert.Equal(t, report.MatchedInvoices[0].Evidence, report.MatchedInvoices[1].Evidence)
	assert.Equal(t, model.ScopeGroup, report.MatchedInvoices[0].Scope)
}

func TestReconcile_SingleScope(t *testing.T) {
	awb := afterSalesAWB([]string{"1063194729"}, 4, "100.0")
	candidates := []Candidate{
		{SourceFile: "good.pdf", Invoice: invoice("1063194729", 4, "100.2")},
		{SourceFile: "bad.pdf", Invoice: invoice("9999999999", 4, "100.2")},
	}

	report := newReconciler().Reconcile(context.Background(), awb, "awb.pdf", candidates)

	require.Len(t, report.MatchedInvoices, 1)
	assert.Equal(t, "good.pdf", report.MatchedInvoices[0].SourceFile)
	require.Len(t, report.AllResults, 2)

	rejected := report.AllResults[1]
	assert.False(t, rejected.Matched)
	assert.Equal(t, "invoice_not_in_awb", rejected.Evidence["reason"])
}

func TestReconcile_NoMatcherForCategory(t *testing.T) {
	awb := &model.AirwayBillRecord{ShipperName: "Acme Corp"}

	report := newReconciler().Reconcile(context.Background(), awb, "awb.pdf", nil)

	assert.Equal(t, model.CategoryUnclassified, report.Category)
	assert.Contains(t, report.Err, "no matcher registered for category")
	assert.Empty(t, report.MatchedInvoices)
	assert.NotNil(t, report.AllResults)
}

func TestReconcile_UsesAttachedClassification(t *testing.T) {
	awb := afterSalesAWB([]string{"1063194729"}, 4, "100.0")
	awb.Classification = &model.ClassificationResult{
		Country:         model.CountryChina,
		Category:        model.CategoryBBACAfterSalesParts,
		RequiresInvoice: true,
	}

	report := newReconciler().Reconcile(context.Background(), awb, "awb.pdf", nil)

	// The pre-attached category wins over what the cascade would assign.
	assert.Equal(t, model.CategoryBBACAfterSalesParts, report.Category)
}

func TestReconcile_ClassifiesWhenAbsent(t *testing.T) {
	awb := afterSalesAWB([]string{"1063194729"}, 4, "100.0")
	require.Nil(t, awb.Classification)

	report := newReconciler().Reconcile(context.Background(), awb, "awb.pdf", nil)

	assert.Equal(t, model.CategoryMBAGAfterSalesParts, report.Category)
	assert.NotNil(t, awb.Classification)
	assert.True(t, report.RequiresInvoice)
}

func TestReconcile_IndependentAcrossCalls(t *testing.T) {
	r := newReconciler()
	for i := 0; i < 3; i++ {
		awb := afterSalesAWB([]string{"1063194729"}, 4, "100.0")
		report := r.Reconcile(context.Background(), awb, "awb.pdf", []Candidate{
			{SourceFile: "inv.pdf", Invoice: invoice("1063194729", 4, "100.0")},
		})
		assert.Len(t, report.MatchedInvoices, 1)
	}
}
