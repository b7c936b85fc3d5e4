package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arnavasoni/tango/internal/model"
	"github.com/arnavasoni/tango/internal/normalize"
)

// SaveReport persists a reconciliation report as JSON alongside a few
// queryable columns. Reports are keyed by AWB source file; re-reconciling
// an AWB replaces its previous report instead of adding a row.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *model.ReconciliationReport) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (awb_file, awb_identifier, category, matched_count, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(awb_file) DO UPDATE SET
			awb_identifier = excluded.awb_identifier,
			category = excluded.category,
			matched_count = excluded.matched_count,
			payload = excluded.payload`,
		report.SourceFile, report.AWBIdentifier, string(report.Category),
		len(report.MatchedInvoices), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// HasReport reports whether an AWB source file has already been reconciled.
// Batch runs use it to skip AWBs from earlier runs.
func (s *SQLiteStorage) HasReport(ctx context.Context, awbFile string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(awbFile, "awbFile"); err != nil {
		return false, err
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM reports WHERE awb_file = ?`, awbFile).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check reports: %w", err)
	}
	return true, nil
}

// GetReports returns all stored reports, oldest first.
func (s *SQLiteStorage) GetReports(ctx context.Context) ([]*model.ReconciliationReport, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM reports ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer closeRows(rows)

	var reports []*model.ReconciliationReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		var report model.ReconciliationReport
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// IsMatchLogged reports whether an AWB/invoice pair already appears in the
// match log. The pair is keyed on the normalized invoice number so formatting
// differences do not produce duplicate log lines.
func (s *SQLiteStorage) IsMatchLogged(ctx context.Context, awbFile, invoiceNumber string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(awbFile, "awbFile"); err != nil {
		return false, err
	}

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM match_log WHERE awb_file = ? AND invoice_number = ?`,
		awbFile, normalize.Digits(invoiceNumber)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check match log: %w", err)
	}
	return true, nil
}

// MarkMatchLogged records an AWB/invoice pair in the match log.
func (s *SQLiteStorage) MarkMatchLogged(ctx context.Context, awbFile, invoiceNumber string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(awbFile, "awbFile"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO match_log (awb_file, invoice_number) VALUES (?, ?)`,
		awbFile, normalize.Digits(invoiceNumber))
	if err != nil {
		return fmt.Errorf("failed to mark match logged: %w", err)
	}
	return nil
}
