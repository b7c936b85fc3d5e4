package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arnavasoni/tango/internal/ingest"
	"github.com/arnavasoni/tango/internal/normalize"
)

// SaveAWB upserts an AWB envelope keyed by its extraction source file.
// Re-extracting the same document replaces the stored payload, including any
// attached classification.
func (s *SQLiteStorage) SaveAWB(ctx context.Context, env *ingest.Envelope) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if env == nil || env.AWB == nil {
		return fmt.Errorf("%w: awb envelope", ErrNilParameter)
	}
	if err := validateString(env.SourceFile, "source_file"); err != nil {
		return err
	}

	payload, err := json.Marshal(env.AWB)
	if err != nil {
		return fmt.Errorf("failed to marshal awb payload: %w", err)
	}

	var country, category string
	if c := env.AWB.Classification; c != nil {
		country = string(c.Country)
		category = string(c.Category)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO awb_documents (source_file, extracted_at, identifier, country, category, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_file) DO UPDATE SET
			extracted_at = excluded.extracted_at,
			identifier = excluded.identifier,
			country = excluded.country,
			category = excluded.category,
			payload = excluded.payload`,
		env.SourceFile, env.Timestamp, env.AWB.Identifier(), country, category, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save awb document: %w", err)
	}
	return nil
}

// SaveInvoice upserts an invoice envelope keyed by its extraction source file.
func (s *SQLiteStorage) SaveInvoice(ctx context.Context, env *ingest.Envelope) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if env == nil || env.Invoice == nil {
		return fmt.Errorf("%w: invoice envelope", ErrNilParameter)
	}
	if err := validateString(env.SourceFile, "source_file"); err != nil {
		return err
	}

	payload, err := json.Marshal(env.Invoice)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invoice_documents (source_file, extracted_at, invoice_number, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_file) DO UPDATE SET
			extracted_at = excluded.extracted_at,
			invoice_number = excluded.invoice_number,
			payload = excluded.payload`,
		env.SourceFile, env.Timestamp, normalize.Digits(env.Invoice.InvoiceNumber), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save invoice document: %w", err)
	}
	return nil
}

// GetAWBs returns every stored AWB envelope in insertion order.
func (s *SQLiteStorage) GetAWBs(ctx context.Context) ([]*ingest.Envelope, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_file, extracted_at, payload
		FROM awb_documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query awb documents: %w", err)
	}
	defer closeRows(rows)

	var envelopes []*ingest.Envelope
	for rows.Next() {
		env, scanErr := scanEnvelope(rows, true)
		if scanErr != nil {
			return nil, scanErr
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, rows.Err()
}

// GetInvoices returns every stored invoice envelope in insertion order.
func (s *SQLiteStorage) GetInvoices(ctx context.Context) ([]*ingest.Envelope, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_file, extracted_at, payload
		FROM invoice_documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice documents: %w", err)
	}
	defer closeRows(rows)

	var envelopes []*ingest.Envelope
	for rows.Next() {
		env, scanErr := scanEnvelope(rows, false)
		if scanErr != nil {
			return nil, scanErr
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, rows.Err()
}

// GetInvoicesByNumber returns stored invoices whose normalized invoice number
// matches the given value.
func (s *SQLiteStorage) GetInvoicesByNumber(ctx context.Context, invoiceNumber string) ([]*ingest.Envelope, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(invoiceNumber, "invoiceNumber"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_file, extracted_at, payload
		FROM invoice_documents WHERE invoice_number = ? ORDER BY id`,
		normalize.Digits(invoiceNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices by number: %w", err)
	}
	defer closeRows(rows)

	var envelopes []*ingest.Envelope
	for rows.Next() {
		env, scanErr := scanEnvelope(rows, false)
		if scanErr != nil {
			return nil, scanErr
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, rows.Err()
}

// IsFileProcessed reports whether an inbox file has already been ingested.
func (s *SQLiteStorage) IsFileProcessed(ctx context.Context, path string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(path, "path"); err != nil {
		return false, err
	}

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM processed_files WHERE path = ?`, path).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check processed file: %w", err)
	}
	return true, nil
}

// MarkFileProcessed records an inbox file so it is not ingested twice.
func (s *SQLiteStorage) MarkFileProcessed(ctx context.Context, path string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(path, "path"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_files (path) VALUES (?)`, path)
	if err != nil {
		return fmt.Errorf("failed to mark file processed: %w", err)
	}
	return nil
}

func scanEnvelope(rows *sql.Rows, isAWB bool) (*ingest.Envelope, error) {
	var sourceFile, extractedAt, payload string
	if err := rows.Scan(&sourceFile, &extractedAt, &payload); err != nil {
		return nil, fmt.Errorf("failed to scan document row: %w", err)
	}

	env := &ingest.Envelope{SourceFile: sourceFile, Timestamp: extractedAt}
	if isAWB {
		if err := json.Unmarshal([]byte(payload), &env.AWB); err != nil {
			return nil, fmt.Errorf("failed to unmarshal awb payload: %w", err)
		}
	} else {
		if err := json.Unmarshal([]byte(payload), &env.Invoice); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invoice payload: %w", err)
		}
	}
	return env, nil
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}
