// Package ingest loads AWB and invoice extraction envelopes from the
// combined text files produced by the document extraction stage. Each file
// holds JSON objects separated by an 80-dash line.
package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/arnavasoni/tango/internal/model"
)

// blockSeparator delimits JSON objects in a combined extraction file.
const blockSeparator = "--------------------------------------------------------------------------------"

// Envelope is one extraction record: metadata plus exactly one of an AWB or
// an invoice payload.
type Envelope struct {
	SourceFile string                  `json:"_source_file"`
	Timestamp  string                  `json:"_timestamp"`
	AWB        *model.AirwayBillRecord `json:"awb,omitempty"`
	Invoice    *model.InvoiceRecord    `json:"invoice,omitempty"`
}

// LoadEnvelopes parses all JSON blocks in the file at path. Malformed blocks
// are skipped with a warning rather than failing the whole file, since the
// extraction stage appends blocks independently.
func LoadEnvelopes(path string) ([]*Envelope, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var envelopes []*Envelope
	for i, block := range strings.Split(string(raw), blockSeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		var env Envelope
		if err := json.Unmarshal([]byte(block), &env); err != nil {
			slog.Warn("Skipping malformed extraction block",
				"file", path,
				"block", i,
				"error", err)
			continue
		}
		envelopes = append(envelopes, &env)
	}

	return envelopes, nil
}

// LoadAWBs returns the AWB envelopes in the file, ignoring invoice blocks.
func LoadAWBs(path string) ([]*Envelope, error) {
	envelopes, err := LoadEnvelopes(path)
	if err != nil {
		return nil, err
	}

	var awbs []*Envelope
	for _, env := range envelopes {
		if env.AWB != nil {
			awbs = append(awbs, env)
		}
	}
	return awbs, nil
}

// LoadInvoices returns the invoice envelopes in the file, ignoring AWB blocks.
func LoadInvoices(path string) ([]*Envelope, error) {
	envelopes, err := LoadEnvelopes(path)
	if err != nil {
		return nil, err
	}

	var invoices []*Envelope
	for _, env := range envelopes {
		if env.Invoice != nil {
			invoices = append(invoices, env)
		}
	}
	return invoices, nil
}

// AppendEnvelope writes an envelope to a combined file, preceded by the block
// separator. The extraction stage uses the same framing.
func AppendEnvelope(path string, env *Envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close file", "path", path, "error", closeErr)
		}
	}()

	if _, err := fmt.Fprintf(f, "\n%s\n%s", blockSeparator, data); err != nil {
		return fmt.Errorf("failed to append envelope: %w", err)
	}
	return nil
}
