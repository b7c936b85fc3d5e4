package model

// Country is the trade lane a shipment was classified into.
type Country string

// Known countries. Unknown is the fallback when no rule fires.
const (
	CountryGermany   Country = "Germany"
	CountryUSA       Country = "USA"
	CountryChina     Country = "China"
	CountrySingapore Country = "Singapore"
	CountryUnknown   Country = "Unknown"
)

// Category is the closed set of trade categories the classifier can assign.
type Category string

// Known categories. Unclassified is the fallback when no rule fires.
const (
	CategoryMBAGProductionParts Category = "MBAG Production Parts"
	CategoryMBAGAfterSalesParts Category = "MBAG After Sales Parts"
	CategoryMBAGCBU             Category = "MBAG CBU"
	CategoryMBUSACBU            Category = "MBUSA CBU"
	CategoryMBUSI               Category = "MBUSI"
	CategoryBBACProductionParts Category = "BBAC Production Parts"
	CategoryBBACAfterSalesParts Category = "BBAC After Sales Parts"
	CategoryMBPartsAPAC         Category = "MB Parts Logistics APAC"
	CategoryUnclassified        Category = "Unclassified"
)

// ClassificationResult records which trade lane an AWB belongs to and how
// that decision was reached. MatchedRules is a human-readable audit trace.
type ClassificationResult struct {
	Country         Country  `json:"country"`
	Category        Category `json:"category"`
	RequiresInvoice bool     `json:"requires_invoice"`
	MatchedRules    []string `json:"matched_rules"`
}

// IsClassified reports whether any rule fired.
func (c *ClassificationResult) IsClassified() bool {
	return c != nil && c.Category != CategoryUnclassified && c.Category != ""
}
