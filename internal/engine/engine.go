// Package engine implements the reconciliation orchestrator: it selects the
// matcher for an AWB's classified category, resolves the match scope and
// assembles the final report.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arnavasoni/tango/internal/classify"
	"github.com/arnavasoni/tango/internal/common"
	"github.com/arnavasoni/tango/internal/match"
	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// Candidate pairs an extracted invoice with the file it came from, so the
// report can point a reviewer back at the source document.
type Candidate struct {
	SourceFile string
	Invoice    *model.InvoiceRecord
}

// Reconciler runs classification and matching for one AWB at a time. It
// holds no mutable state; one instance may be shared across goroutines, each
// reconciling its own AWB.
type Reconciler struct {
	classifier *classify.Classifier
	registry   match.Registry
}

// New creates a reconciler over the given classifier and matcher registry.
func New(classifier *classify.Classifier, registry match.Registry) *Reconciler {
	return &Reconciler{classifier: classifier, registry: registry}
}

// Reconcile verifies one AWB against a batch of candidate invoices and
// returns the assembled report. The AWB's attached classification is used
// when present; otherwise the AWB is classified first, with the first
// candidate invoice as a fallback source for blank party fields.
//
// Scope is resolved with a probe call: the matcher is invoked once with a
// zero invoice and the full candidate list. Scope is a property of the AWB's
// invoice-number cardinality, not of any one invoice pair, so it must be
// decided before iterating. A GROUP result settles the whole AWB in one
// step; otherwise every candidate is evaluated in SINGLE scope.
func (r *Reconciler) Reconcile(ctx context.Context, awb *model.AirwayBillRecord, awbFile string, candidates []Candidate) model.ReconciliationReport {
	cls := awb.Classification
	if cls == nil {
		var firstInvoice *model.InvoiceRecord
		if len(candidates) > 0 {
			firstInvoice = candidates[0].Invoice
		}
		c := r.classifier.Classify(awb, firstInvoice)
		cls = &c
	}

	report := model.ReconciliationReport{
		AWBIdentifier:   awb.Identifier(),
		SourceFile:      awbFile,
		Country:         cls.Country,
		Category:        cls.Category,
		RequiresInvoice: cls.RequiresInvoice,
		MatchedRules:    cls.MatchedRules,
		MatchedInvoices: []model.InvoiceMatch{},
		AllResults:      []model.InvoiceMatch{},
	}

	matcher, ok := r.registry.For(cls.Category)
	if !ok {
		report.Err = fmt.Errorf("%w %q", common.ErrNoMatcher, cls.Category).Error()
		slog.Warn("Skipping reconciliation",
			"awb", report.AWBIdentifier, "category", cls.Category, "reason", report.Err)
		return report
	}

	invoices := make([]*model.InvoiceRecord, len(candidates))
	for i, c := range candidates {
		invoices[i] = c.Invoice
	}

	probe := matcher.Match(ctx, awb, &model.InvoiceRecord{}, invoices)
	if probe.Scope == model.ScopeGroup && probe.Matched {
		r.resolveGroup(awb, candidates, probe, &report)
		return report
	}

	for _, c := range candidates {
		result := matcher.Match(ctx, awb, c.Invoice, invoices)
		entry := model.InvoiceMatch{
			InvoiceNumber: c.Invoice.InvoiceNumber,
			SourceFile:    c.SourceFile,
			Matched:       result.Matched && result.Scope == model.ScopeSingle,
			Scope:         result.Scope,
			Evidence:      result.Evidence,
		}
		report.AllResults = append(report.AllResults, entry)
		if entry.Matched {
			report.MatchedInvoices = append(report.MatchedInvoices, entry)
		}
	}

	slog.Debug("Reconciled AWB",
		"awb", report.AWBIdentifier,
		"category", report.Category,
		"matched", len(report.MatchedInvoices),
		"candidates", len(candidates))

	return report
}

// resolveGroup records every candidate referenced by the AWB as matched,
// sharing the single aggregate evidence map. GROUP is resolved once for the
// whole AWB; no per-invoice iteration follows.
func (r *Reconciler) resolveGroup(awb *model.AirwayBillRecord, candidates []Candidate, probe model.MatchResult, report *model.ReconciliationReport) {
	set := normalize.DigitSet(awb.InvoiceNumbers)

	for _, c := range candidates {
		num := normalize.Digits(c.Invoice.InvoiceNumber)
		if !contains(set, num) {
			continue
		}
		entry := model.InvoiceMatch{
			InvoiceNumber: c.Invoice.InvoiceNumber,
			SourceFile:    c.SourceFile,
			Matched:       true,
			Scope:         model.ScopeGroup,
			Evidence:      probe.Evidence,
		}
		report.MatchedInvoices = append(report.MatchedInvoices, entry)
		report.AllResults = append(report.AllResults, entry)
	}

	slog.Debug("Reconciled AWB as group",
		"awb", report.AWBIdentifier,
		"category", report.Category,
		"matched", len(report.MatchedInvoices))
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
