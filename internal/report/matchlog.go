package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arnavasoni/tango/internal/model"
)

// MatchLedger answers whether an AWB/invoice pair has already been written to
// the match log. SQLiteStorage satisfies it.
type MatchLedger interface {
	IsMatchLogged(ctx context.Context, awbFile, invoiceNumber string) (bool, error)
	MarkMatchLogged(ctx context.Context, awbFile, invoiceNumber string) error
}

// MatchLog appends matched invoices to a human-readable text file. Each
// invoice is written at most once per AWB, tracked through the ledger so the
// suppression survives restarts.
type MatchLog struct {
	path   string
	ledger MatchLedger
}

// NewMatchLog creates a match log writing to path.
func NewMatchLog(path string, ledger MatchLedger) *MatchLog {
	return &MatchLog{path: path, ledger: ledger}
}

// Append writes one report to the log: its matched invoices, or a
// no-matches line when there are none. Pairs already logged for this AWB
// file are skipped; an AWB whose matches are all duplicates produces no
// output at all.
func (l *MatchLog) Append(ctx context.Context, report *model.ReconciliationReport) error {
	var fresh []model.InvoiceMatch
	for _, m := range report.MatchedInvoices {
		logged, err := l.ledger.IsMatchLogged(ctx, report.SourceFile, m.InvoiceNumber)
		if err != nil {
			return err
		}
		if !logged {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) == 0 && len(report.MatchedInvoices) > 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0750); err != nil {
		return fmt.Errorf("failed to create match log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open match log: %w", err)
	}
	defer func() { _ = f.Close() }()

	fmt.Fprintf(f, "AWB FILE: %s\n", report.SourceFile)
	fmt.Fprintf(f, "CLASSIFICATION: %s / %s\n", report.Country, report.Category)

	if len(report.MatchedInvoices) == 0 {
		fmt.Fprintf(f, "  -> No matches found\n\n")
		return nil
	}

	for _, m := range fresh {
		fmt.Fprintf(f, "  MATCHED INVOICE:\n")
		fmt.Fprintf(f, "    File: %s\n", m.SourceFile)
		fmt.Fprintf(f, "    Invoice No: %s\n", m.InvoiceNumber)
		if len(m.Evidence) > 0 {
			fmt.Fprintf(f, "    Details: %s\n", evidenceJSON(m.Evidence))
		}
		if err := l.ledger.MarkMatchLogged(ctx, report.SourceFile, m.InvoiceNumber); err != nil {
			return err
		}
	}
	fmt.Fprintf(f, "\n")
	return nil
}
