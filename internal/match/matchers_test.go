package match

import (
	"context"
	"testing"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig uses the pure token scorer so party checks pass whenever names
// are copied verbatim between AWB and invoice.
func testConfig() Config {
	return DefaultConfig()
}

func partsAWB(invoiceNumbers []string, pieces int, weight string) *model.AirwayBillRecord {
	return &model.AirwayBillRecord{
		ShipperName:      "Mercedes-Benz AG",
		ShipperAddress:   "Stuttgart, Germany",
		ConsigneeName:    "Daimler India Commercial Vehicles",
		ConsigneeAddress: "Chennai, India",
		InvoiceNumbers:   invoiceNumbers,
		Pieces:           pieces,
		GrossWeight:      model.WeightString(weight),
	}
}

func partsInvoice(number string, pieces int, weight string) *model.InvoiceRecord {
	return &model.InvoiceRecord{
		InvoiceNumber:    number,
		SupplierName:     "Mercedes-Benz AG",
		ConsigneeName:    "Daimler India Commercial Vehicles",
		ConsigneeAddress: "Chennai, India",
		Pieces:           pieces,
		GrossWeight:      model.WeightString(weight),
	}
}

func TestMBAGAfterSales_GroupAggregation(t *testing.T) {
	awb := partsAWB([]string{"1063194729", "1063938444"}, 10, "250.0")
	invoices := []*model.InvoiceRecord{
		partsInvoice("1063194729", 4, "100.0"),
		partsInvoice("1063938444", 6, "149.5"),
		partsInvoice("9999999999", 3, "50.0"),
	}

	m := NewMBAGAfterSales(testConfig())
	got := m.Match(context.Background(), awb, &model.InvoiceRecord{}, invoices)

	assert.True(t, got.Matched)
	assert.Equal(t, model.ScopeGroup, got.Scope)
	assert.Equal(t, []string{"1063194729", "1063938444"}, got.RelatedInvoiceNumbers)
	assert.Equal(t, 2, got.Evidence["invoice_count"])
	assert.Equal(t, 10, got.Evidence["total_pieces"])
	assert.Equal(t, true, got.Evidence["pieces_match"])
	assert.Equal(t, true, got.Evidence["weight_match"])
}

func TestMBAGAfterSales_GroupNoRelatedInvoices(t *testing.T) {
	awb := partsAWB([]string{"1063194729", "1063938444"}, 10, "250.0")

	m := NewMBAGAfterSales(testConfig())
	got := m.Match(context.Background(), awb, &model.InvoiceRecord{}, nil)

	assert.False(t, got.Matched)
	assert.Equal(t, model.ScopeGroup, got.Scope)
	assert.Equal(t, "no_related_invoices", got.Evidence["reason"])
}

func TestMBAGAfterSales_SingleRejection(t *testing.T) {
	awb := partsAWB([]string{"1063194729"}, 4, "100.0")
	stranger := partsInvoice("9999999999", 4, "100.0")

	m := NewMBAGAfterSales(testConfig())
	got := m.Match(context.Background(), awb, stranger, []*model.InvoiceRecord{stranger})

	assert.False(t, got.Matched)
	assert.Equal(t, model.ScopeSingle, got.Scope)
	assert.Equal(t, "invoice_not_in_awb", got.Evidence["reason"])
}

func TestMBAGAfterSales_SingleMatch(t *testing.T) {
	awb := partsAWB([]string{"1063194729"}, 4, "100.4")
	inv := partsInvoice("1063194729", 4, "100.0")

	m := NewMBAGAfterSales(testConfig())
	got := m.Match(context.Background(), awb, inv, []*model.InvoiceRecord{inv})

	assert.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, model.ScopeSingle, got.Scope)
	assert.Equal(t, true, got.Evidence["invoice_match"])
}

func TestMBAGProduction_ContainerFallback(t *testing.T) {
	awb := partsAWB([]string{"4901234567"}, 2, "80.0")
	awb.ContainerNumber = ""
	awb.OtherReferenceNumbers = []string{"REF-1", "CONT-777"}

	inv := partsInvoice("4901234567", 2, "80.0")
	inv.ContainerNumber = "CONT-777"

	m := NewMBAGProduction(testConfig())
	got := m.Match(context.Background(), awb, inv, nil)

	assert.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, true, got.Evidence["container_match"])
}

func TestMBAGProduction_MissingContainerFails(t *testing.T) {
	awb := partsAWB([]string{"4901234567"}, 2, "80.0")
	inv := partsInvoice("4901234567", 2, "80.0")
	// No container anywhere: the check fails closed.
	m := NewMBAGProduction(testConfig())
	got := m.Match(context.Background(), awb, inv, nil)

	assert.False(t, got.Matched)
	assert.Equal(t, false, got.Evidence["container_match"])
}

func TestMBAGCBU_VINAndOrder(t *testing.T) {
	awb := partsAWB(nil, 1, "2100")
	awb.VIN = "W1K2962641A123456"
	awb.OrderNo = "7766554433"

	inv := partsInvoice("", 1, "2100")
	inv.VIN = "W1K2962641A123456"
	inv.OrderNo = "7766554433"

	m := NewMBAGCBU(testConfig())
	got := m.Match(context.Background(), awb, inv, nil)

	assert.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, "skipped", got.Evidence["invoice_match"])

	inv.VIN = "W1K2962641A999999"
	got = m.Match(context.Background(), awb, inv, nil)
	assert.False(t, got.Matched)
	assert.Equal(t, false, got.Evidence["vin_match"])
}

func TestMBAGCBU_MissingVINFails(t *testing.T) {
	awb := partsAWB(nil, 1, "2100")
	inv := partsInvoice("", 1, "2100")

	got := NewMBAGCBU(testConfig()).Match(context.Background(), awb, inv, nil)
	assert.False(t, got.Matched)
	assert.Equal(t, false, got.Evidence["vin_match"])
	assert.Equal(t, false, got.Evidence["order_match"])
}

func TestMBUSACBU_PreCheck(t *testing.T) {
	awb := partsAWB(nil, 1, "2100")
	awb.ShipperAddress = "Stuttgart, Germany"
	awb.VIN = "4JGDA5HB7JB158144"
	awb.OrderNo = "1122334455"

	m := NewMBUSACBU(testConfig())
	got := m.Match(context.Background(), awb, partsInvoice("", 1, "2100"), nil)

	assert.False(t, got.Matched)
	assert.Equal(t, false, got.Evidence["shipper_add_check"])
	// VIN/order must not have been evaluated.
	assert.NotContains(t, got.Evidence, "vin_match")
}

func TestMBUSACBU_DelegatesToCBU(t *testing.T) {
	awb := partsAWB(nil, 1, "2100")
	awb.ShipperAddress = "Vance, AL, United States"
	awb.VIN = "4JGDA5HB7JB158144"
	awb.OrderNo = "1122334455"

	inv := partsInvoice("", 1, "2100")
	inv.VIN = "4JGDA5HB7JB158144"
	inv.OrderNo = "1122334455"

	got := NewMBUSACBU(testConfig()).Match(context.Background(), awb, inv, nil)

	assert.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, true, got.Evidence["shipper_add_check"])
	assert.Equal(t, true, got.Evidence["vin_match"])
}

func TestMBUSI_SingleHAWB(t *testing.T) {
	awb := partsAWB(nil, 5, "500")
	awb.HAWB = "HAWB-42"

	inv := partsInvoice("", 5, "500")
	inv.ContainerNumber = "HAWB-42"

	m := NewMBUSI(testConfig())
	got := m.Match(context.Background(), awb, inv, []*model.InvoiceRecord{inv})

	assert.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, true, got.Evidence["hawb_match"])

	inv.ContainerNumber = "OTHER"
	got = m.Match(context.Background(), awb, inv, []*model.InvoiceRecord{inv})
	assert.False(t, got.Matched)
}

func TestMBUSI_GroupScope(t *testing.T) {
	awb := partsAWB([]string{"111", "222"}, 7, "70")
	invoices := []*model.InvoiceRecord{
		partsInvoice("111", 3, "30"),
		partsInvoice("222", 4, "40"),
	}

	got := NewMBUSI(testConfig()).Match(context.Background(), awb, &model.InvoiceRecord{}, invoices)

	assert.True(t, got.Matched)
	assert.Equal(t, model.ScopeGroup, got.Scope)
}

func TestBBACProduction_Single(t *testing.T) {
	awb := partsAWB([]string{"1501234567"}, 3, "90")
	awb.HAWB = "HB-123"

	inv := partsInvoice("1501234567", 3, "90")
	inv.ContainerNumber = "HB-123"

	got := NewBBACProduction(testConfig()).Match(context.Background(), awb, inv, []*model.InvoiceRecord{inv})

	require.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, true, got.Evidence["invoice_prefix_150"])
	assert.Equal(t, true, got.Evidence["hawb_match"])
}

func TestBBACProduction_WrongPrefixFails(t *testing.T) {
	awb := partsAWB([]string{"9991234567"}, 3, "90")
	awb.HAWB = "HB-123"
	inv := partsInvoice("9991234567", 3, "90")
	inv.ContainerNumber = "HB-123"

	got := NewBBACProduction(testConfig()).Match(context.Background(), awb, inv, []*model.InvoiceRecord{inv})

	assert.False(t, got.Matched)
	assert.Equal(t, false, got.Evidence["invoice_prefix_150"])
}

func TestBBACAfterSales_Prefix(t *testing.T) {
	awb := partsAWB([]string{"1106123456"}, 2, "40")
	inv := partsInvoice("1106123456", 2, "40")

	got := NewBBACAfterSales(testConfig()).Match(context.Background(), awb, inv, []*model.InvoiceRecord{inv})
	assert.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, true, got.Evidence["invoice_prefix_1106"])
}

func TestAPAC_EuropeanWeights(t *testing.T) {
	awb := partsAWB([]string{"1100555555"}, 12, "28.877,56 KG")
	inv := partsInvoice("1100555555", 12, "28877.0")

	got := NewAPAC(testConfig()).Match(context.Background(), awb, inv, []*model.InvoiceRecord{inv})

	assert.True(t, got.Matched, "evidence: %v", got.Evidence)
	assert.Equal(t, true, got.Evidence["weight_match"])
}

func TestRegistry_CoversEveryCategory(t *testing.T) {
	r := NewRegistry(testConfig())

	categories := []model.Category{
		model.CategoryMBAGProductionParts,
		model.CategoryMBAGAfterSalesParts,
		model.CategoryMBAGCBU,
		model.CategoryMBUSACBU,
		model.CategoryMBUSI,
		model.CategoryBBACProductionParts,
		model.CategoryBBACAfterSalesParts,
		model.CategoryMBPartsAPAC,
	}
	for _, c := range categories {
		m, ok := r.For(c)
		require.True(t, ok, "no matcher for %s", c)
		assert.Equal(t, c, m.Category())
	}

	_, ok := r.For(model.CategoryUnclassified)
	assert.False(t, ok)
}
