// Package classify assigns a shipment to a country and trade category via an
// ordered rule cascade. Classification is deterministic, side-effect-free and
// total: when no rule fires the result is Unclassified/Unknown, never an
// error.
package classify

import (
	"strings"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// prefixMap drives the fallback rule: leading invoice-number digits mapped
// to a fixed country/category pair.
var prefixMap = map[string]struct {
	country  model.Country
	category model.Category
}{
	"490":  {model.CountryGermany, model.CategoryMBAGProductionParts},
	"106":  {model.CountryGermany, model.CategoryMBAGAfterSalesParts},
	"150":  {model.CountryChina, model.CategoryBBACProductionParts},
	"1106": {model.CountryChina, model.CategoryBBACAfterSalesParts},
	"1100": {model.CountrySingapore, model.CategoryMBPartsAPAC},
}

// requiresInvoiceCategories marks the prefix-driven parts categories whose
// reconciliation correlates invoice numbers. CBU and MBUSI shipments are
// still matched, but on VIN/HAWB identity instead.
var requiresInvoiceCategories = map[model.Category]struct{}{
	model.CategoryMBAGProductionParts: {},
	model.CategoryMBAGAfterSalesParts: {},
	model.CategoryBBACProductionParts: {},
	model.CategoryBBACAfterSalesParts: {},
	model.CategoryMBPartsAPAC:         {},
}

// features holds the normalized view of one AWB (with the invoice as a
// fallback source for party text) that every rule predicate reads.
type features struct {
	shipper      string
	shipperAdd   string
	consignee    string
	consigneeAdd string
	hawb         string
	container    string
	vin          string
	orderNo      string
	invoiceNo    string
}

// rule is one entry of the cascade: first predicate to return true wins.
type rule struct {
	trace     string
	predicate func(f features) bool
	country   model.Country
	category  model.Category
}

// Classifier evaluates the ordered rule cascade.
type Classifier struct {
	rules []rule
}

// New creates a classifier with the production rule cascade.
func New() *Classifier {
	return &Classifier{rules: cascade()}
}

// Classify assigns a country and category to the AWB and attaches the result
// to the record. The invoice, when present, only supplies fallback party text
// for blank AWB fields. A record that already carries a classification is
// returned unchanged; classification happens exactly once.
func (c *Classifier) Classify(awb *model.AirwayBillRecord, inv *model.InvoiceRecord) model.ClassificationResult {
	if awb.Classification != nil {
		return *awb.Classification
	}

	f := buildFeatures(awb, inv)

	result := model.ClassificationResult{
		Country:      model.CountryUnknown,
		Category:     model.CategoryUnclassified,
		MatchedRules: []string{},
	}

	fired := false
	for _, r := range c.rules {
		if r.predicate(f) {
			result.Country = r.country
			result.Category = r.category
			result.MatchedRules = append(result.MatchedRules, r.trace)
			fired = true
			break
		}
	}

	// Fallback: resolve by the fixed invoice-prefix table. Last in priority
	// order; an AWB with no invoice numbers fails closed here because the
	// empty string has no valid prefix.
	if !fired {
		if country, category, prefix, ok := lookupPrefix(f.invoiceNo); ok {
			result.Country = country
			result.Category = category
			result.MatchedRules = append(result.MatchedRules, "Fallback prefix mapping: "+prefix)
		}
	}

	_, result.RequiresInvoice = requiresInvoiceCategories[result.Category]

	awb.Classification = &result
	return result
}

func buildFeatures(awb *model.AirwayBillRecord, inv *model.InvoiceRecord) features {
	if inv == nil {
		inv = &model.InvoiceRecord{}
	}

	return features{
		shipper:      normalize.Text(coalesce(awb.ShipperName, inv.SupplierName)),
		shipperAdd:   normalize.Text(coalesce(awb.ShipperAddress, inv.SupplierAddress)),
		consignee:    normalize.Text(coalesce(awb.ConsigneeName, inv.ConsigneeName)),
		consigneeAdd: normalize.Text(coalesce(awb.ConsigneeAddress, inv.ConsigneeAddress)),
		hawb:         normalize.Text(awb.HAWB),
		container:    normalize.Text(coalesce(awb.HAWB, inv.ContainerNumber)),
		vin:          normalize.Text(awb.VIN),
		orderNo:      normalize.Text(awb.OrderNo),
		invoiceNo:    normalize.Digits(awb.FirstInvoiceNumber()),
	}
}

// cascade returns the ordered production rules. Order is load-bearing:
// evaluation is top-to-bottom, first match wins.
func cascade() []rule {
	return []rule{
		{
			trace: "Shipper: Mercedes-Benz AG + InvPrefix: 490",
			predicate: func(f features) bool {
				return strings.Contains(f.shipper, "mercedes-benz ag") &&
					strings.HasPrefix(f.invoiceNo, "490")
			},
			country:  model.CountryGermany,
			category: model.CategoryMBAGProductionParts,
		},
		{
			trace: "Consignee: After Sales + InvPrefix: 106",
			predicate: func(f features) bool {
				return strings.HasPrefix(f.invoiceNo, "106") &&
					(strings.Contains(f.shipper, "mercedes-benz ag") ||
						strings.Contains(f.shipperAdd, "germany") ||
						strings.Contains(f.consignee, "after sales-parts") ||
						strings.Contains(f.consigneeAdd, "after sales-parts"))
			},
			country:  model.CountryGermany,
			category: model.CategoryMBAGAfterSalesParts,
		},
		{
			trace: "VIN + OrderNo detected -> MBAG CBU",
			predicate: func(f features) bool {
				return strings.Contains(f.shipper, "mercedes-benz ag") &&
					normalize.IsVIN(f.vin) && f.orderNo != ""
			},
			country:  model.CountryGermany,
			category: model.CategoryMBAGCBU,
		},
		{
			trace: "VIN + OrderNo detected -> MBUSA CBU",
			predicate: func(f features) bool {
				return strings.Contains(f.shipper, "mercedes benz us") &&
					mentionsUSA(f.shipperAdd) &&
					normalize.IsVIN(f.vin) && f.orderNo != ""
			},
			country:  model.CountryUSA,
			category: model.CategoryMBUSACBU,
		},
		{
			trace: "Shipper Address: USA + HAWB match -> MBUSI",
			predicate: func(f features) bool {
				return mentionsUSA(f.shipperAdd) &&
					f.hawb != "" && strings.Contains(f.container, f.hawb)
			},
			country:  model.CountryUSA,
			category: model.CategoryMBUSI,
		},
		{
			trace: "Shipper: BBAC + InvPrefix: 150",
			predicate: func(f features) bool {
				return (strings.Contains(f.shipper, "beijing") ||
					strings.Contains(f.shipperAdd, "shanghai")) &&
					strings.HasPrefix(f.invoiceNo, "150")
			},
			country:  model.CountryChina,
			category: model.CategoryBBACProductionParts,
		},
		{
			trace: "Shipper: MB Beijing Parts + InvPrefix: 1106",
			predicate: func(f features) bool {
				return strings.Contains(f.shipper, "parts trading") &&
					strings.HasPrefix(f.invoiceNo, "1106")
			},
			country:  model.CountryChina,
			category: model.CategoryBBACAfterSalesParts,
		},
		{
			trace: "Shipper: MB Parts APAC + InvPrefix: 1100",
			predicate: func(f features) bool {
				return (strings.Contains(f.shipperAdd, "senai") ||
					strings.Contains(f.shipperAdd, "malaysia")) &&
					strings.HasPrefix(f.invoiceNo, "1100")
			},
			country:  model.CountrySingapore,
			category: model.CategoryMBPartsAPAC,
		},
	}
}

// lookupPrefix resolves the leading 4 then 3 digits of the invoice number
// against the fixed prefix table.
func lookupPrefix(invoiceNo string) (model.Country, model.Category, string, bool) {
	for _, n := range []int{4, 3} {
		if len(invoiceNo) < n {
			continue
		}
		if hit, ok := prefixMap[invoiceNo[:n]]; ok {
			return hit.country, hit.category, invoiceNo[:n], true
		}
	}
	return model.CountryUnknown, model.CategoryUnclassified, "", false
}

func mentionsUSA(addr string) bool {
	return normalize.ContainsAny(addr, "us", "usa", "united states")
}

func coalesce(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
