package model

// MatchScope distinguishes a one-to-one comparison from an aggregate
// comparison across every invoice the AWB references.
type MatchScope string

// Match scope constants.
const (
	ScopeSingle MatchScope = "SINGLE"
	ScopeGroup  MatchScope = "GROUP"
)

// Evidence is the per-check trace returned alongside a match decision. Values
// are booleans for pass/fail checks and numbers for similarity scores.
type Evidence map[string]any

// MatchResult is the outcome of evaluating one AWB against a candidate
// invoice (SINGLE) or against the set of invoices it references (GROUP).
type MatchResult struct {
	Matched               bool       `json:"matched"`
	Scope                 MatchScope `json:"scope"`
	Evidence              Evidence   `json:"evidence"`
	RelatedInvoiceNumbers []string   `json:"related_invoice_numbers,omitempty"`
}

// InvoiceMatch ties one candidate invoice to its match outcome inside a
// reconciliation report.
type InvoiceMatch struct {
	InvoiceNumber string     `json:"invoice_number"`
	SourceFile    string     `json:"invoice_file,omitempty"`
	Matched       bool       `json:"matched"`
	Scope         MatchScope `json:"scope"`
	Evidence      Evidence   `json:"evidence"`
}

// ReconciliationReport is the final result of reconciling one AWB against a
// batch of candidate invoices. Err is set when the category has no registered
// matcher; it is a structured field, never a panic.
type ReconciliationReport struct {
	AWBIdentifier   string         `json:"awb_id"`
	SourceFile      string         `json:"awb_file,omitempty"`
	Country         Country        `json:"country"`
	Category        Category       `json:"category"`
	RequiresInvoice bool           `json:"requires_invoice"`
	MatchedRules    []string       `json:"matched_rules,omitempty"`
	MatchedInvoices []InvoiceMatch `json:"matched_invoices"`
	AllResults      []InvoiceMatch `json:"all_results"`
	Err             string         `json:"error,omitempty"`
}
