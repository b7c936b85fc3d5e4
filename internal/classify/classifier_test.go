package classify

import (
	"testing"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_RuleCascade(t *testing.T) {
	tests := []struct {
		name         string
		awb          model.AirwayBillRecord
		inv          *model.InvoiceRecord
		wantCountry  model.Country
		wantCategory model.Category
		wantRequires bool
	}{
		{
			name: "mbag production parts",
			awb: model.AirwayBillRecord{
				ShipperName:    "Mercedes-Benz AG",
				InvoiceNumbers: []string{"4901234567"},
			},
			wantCountry:  model.CountryGermany,
			wantCategory: model.CategoryMBAGProductionParts,
			wantRequires: true,
		},
		{
			name: "mbag after sales via consignee",
			awb: model.AirwayBillRecord{
				ShipperName:    "Some Forwarder",
				ConsigneeName:  "Daimler After Sales–Parts",
				InvoiceNumbers: []string{"1063194729"},
			},
			wantCountry:  model.CountryGermany,
			wantCategory: model.CategoryMBAGAfterSalesParts,
			wantRequires: true,
		},
		{
			name: "mbag after sales via german shipper address",
			awb: model.AirwayBillRecord{
				ShipperAddress: "Stuttgart, Germany",
				InvoiceNumbers: []string{"1063938444"},
			},
			wantCountry:  model.CountryGermany,
			wantCategory: model.CategoryMBAGAfterSalesParts,
			wantRequires: true,
		},
		{
			name: "mbag cbu on vin and order",
			awb: model.AirwayBillRecord{
				ShipperName: "Mercedes-Benz AG",
				VIN:         "W1K2962641A123456",
				OrderNo:     "9988776655",
			},
			wantCountry:  model.CountryGermany,
			wantCategory: model.CategoryMBAGCBU,
			wantRequires: false,
		},
		{
			name: "mbusa cbu",
			awb: model.AirwayBillRecord{
				ShipperName:    "Mercedes Benz US International",
				ShipperAddress: "Vance, AL, United States",
				VIN:            "4JGDA5HB7JB158144",
				OrderNo:        "1122334455",
			},
			wantCountry:  model.CountryUSA,
			wantCategory: model.CategoryMBUSACBU,
			wantRequires: false,
		},
		{
			name: "mbusi on hawb in container",
			awb: model.AirwayBillRecord{
				ShipperName:    "Tuscaloosa Plant",
				ShipperAddress: "Tuscaloosa, USA",
				HAWB:           "HAWB123",
			},
			wantCountry:  model.CountryUSA,
			wantCategory: model.CategoryMBUSI,
			wantRequires: false,
		},
		{
			name: "bbac production parts",
			awb: model.AirwayBillRecord{
				ShipperName:    "Beijing Benz Automotive Co., Ltd.",
				InvoiceNumbers: []string{"1501234567"},
			},
			wantCountry:  model.CountryChina,
			wantCategory: model.CategoryBBACProductionParts,
			wantRequires: true,
		},
		{
			name: "bbac after sales",
			awb: model.AirwayBillRecord{
				ShipperName:    "MB Parts Trading Co.",
				InvoiceNumbers: []string{"1106123456"},
			},
			wantCountry:  model.CountryChina,
			wantCategory: model.CategoryBBACAfterSalesParts,
			wantRequires: true,
		},
		{
			name: "apac hub",
			awb: model.AirwayBillRecord{
				ShipperName:    "Regional DC",
				ShipperAddress: "Senai, Johor, Malaysia",
				InvoiceNumbers: []string{"1100123456"},
			},
			wantCountry:  model.CountrySingapore,
			wantCategory: model.CategoryMBPartsAPAC,
			wantRequires: true,
		},
		{
			name: "fallback three digit prefix",
			awb: model.AirwayBillRecord{
				ShipperName:    "Unknown Forwarder",
				InvoiceNumbers: []string{"4909999999"},
			},
			wantCountry:  model.CountryGermany,
			wantCategory: model.CategoryMBAGProductionParts,
			wantRequires: true,
		},
		{
			name: "fallback four digit prefix",
			awb: model.AirwayBillRecord{
				InvoiceNumbers: []string{"1100777777"},
			},
			wantCountry:  model.CountrySingapore,
			wantCategory: model.CategoryMBPartsAPAC,
			wantRequires: true,
		},
		{
			name:         "unclassifiable",
			awb:          model.AirwayBillRecord{ShipperName: "Acme Corp"},
			wantCountry:  model.CountryUnknown,
			wantCategory: model.CategoryUnclassified,
			wantRequires: false,
		},
		{
			name:         "all empty fields",
			awb:          model.AirwayBillRecord{},
			wantCountry:  model.CountryUnknown,
			wantCategory: model.CategoryUnclassified,
			wantRequires: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			awb := tt.awb
			got := c.Classify(&awb, tt.inv)

			assert.Equal(t, tt.wantCountry, got.Country)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantRequires, got.RequiresInvoice)
			require.NotNil(t, awb.Classification)
			assert.Equal(t, got, *awb.Classification)
		})
	}
}

func TestClassify_PriorityOrdering(t *testing.T) {
	// Satisfies rule 1 and the fallback prefix table at once; rule 1 must
	// win because evaluation is first-match.
	awb := model.AirwayBillRecord{
		ShipperName:    "Mercedes-Benz AG",
		InvoiceNumbers: []string{"4901234567"},
	}

	got := New().Classify(&awb, nil)

	require.Len(t, got.MatchedRules, 1)
	assert.Equal(t, "Shipper: Mercedes-Benz AG + InvPrefix: 490", got.MatchedRules[0])
}

func TestClassify_NoInvoiceNumbersFailsClosed(t *testing.T) {
	// Prefix rules must not fire on an empty invoice-number list, but the
	// VIN-based rule still can.
	awb := model.AirwayBillRecord{
		ShipperName: "Mercedes-Benz AG",
		VIN:         "W1K2962641A123456",
		OrderNo:     "5544332211",
	}

	got := New().Classify(&awb, nil)
	assert.Equal(t, model.CategoryMBAGCBU, got.Category)

	bare := model.AirwayBillRecord{ShipperName: "Mercedes-Benz AG"}
	assert.Equal(t, model.CategoryUnclassified, New().Classify(&bare, nil).Category)
}

func TestClassify_InvoiceFallbackForPartyText(t *testing.T) {
	// Blank AWB shipper falls back to the invoice supplier name; the invoice
	// number used for classification is still the AWB's own list.
	awb := model.AirwayBillRecord{InvoiceNumbers: []string{"4901111111"}}
	inv := &model.InvoiceRecord{SupplierName: "Mercedes-Benz AG"}

	got := New().Classify(&awb, inv)
	assert.Equal(t, model.CategoryMBAGProductionParts, got.Category)
}

func TestClassify_ExactlyOnce(t *testing.T) {
	awb := model.AirwayBillRecord{
		ShipperName:    "Mercedes-Benz AG",
		InvoiceNumbers: []string{"4901234567"},
	}

	c := New()
	first := c.Classify(&awb, nil)

	// Mutating the input afterwards must not change the attached result.
	awb.ShipperName = "Someone Else"
	second := c.Classify(&awb, nil)
	assert.Equal(t, first, second)
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		awb := model.AirwayBillRecord{
			ShipperAddress: "Tuscaloosa, USA",
			HAWB:           "HX99",
		}
		got := New().Classify(&awb, nil)
		assert.Equal(t, model.CategoryMBUSI, got.Category)
	}
}
