package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/arnavasoni/tango/internal/model"
)

func sampleReport() *model.ReconciliationReport {
	return &model.ReconciliationReport{
		AWBIdentifier:   "020FRA12345678",
		SourceFile:      "/scans/awb_001.pdf",
		Country:         model.CountryGermany,
		Category:        model.CategoryMBAGProductionParts,
		RequiresInvoice: true,
		MatchedRules:    []string{"Shipper: Mercedes-Benz AG + InvPrefix: 490"},
		MatchedInvoices: []model.InvoiceMatch{
			{
				InvoiceNumber: "4901234567",
				SourceFile:    "/scans/inv_001.pdf",
				Matched:       true,
				Scope:         model.ScopeSingle,
				Evidence:      model.Evidence{"pieces_match": true},
			},
		},
		AllResults: []model.InvoiceMatch{
			{InvoiceNumber: "4901234567", Matched: true, Scope: model.ScopeSingle},
			{InvoiceNumber: "1063938444", Matched: false, Scope: model.ScopeSingle},
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	require.NoError(t, WriteWorkbook(path, []*model.ReconciliationReport{sampleReport()}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	rows, err := f.GetRows(trackerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "AWB ID", rows[0][0])
	assert.Equal(t, "020FRA12345678", rows[1][0])
	assert.Equal(t, "Germany", rows[1][2])
	assert.Equal(t, "MBAG Production Parts", rows[1][3])
	assert.Equal(t, "4901234567", rows[1][6])
	assert.Equal(t, "2", rows[1][7])
	assert.Equal(t, "SINGLE", rows[1][8])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	require.NoError(t, WriteWorkbook(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	rows, err := f.GetRows(trackerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

type memoryLedger struct {
	logged map[string]bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{logged: make(map[string]bool)}
}

func (m *memoryLedger) IsMatchLogged(_ context.Context, awbFile, invoiceNumber string) (bool, error) {
	return m.logged[awbFile+"|"+invoiceNumber], nil
}

func (m *memoryLedger) MarkMatchLogged(_ context.Context, awbFile, invoiceNumber string) error {
	m.logged[awbFile+"|"+invoiceNumber] = true
	return nil
}

func TestMatchLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matched.log")
	log := NewMatchLog(path, newMemoryLedger())

	require.NoError(t, log.Append(context.Background(), sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "AWB FILE: /scans/awb_001.pdf")
	assert.Contains(t, text, "CLASSIFICATION: Germany / MBAG Production Parts")
	assert.Contains(t, text, "Invoice No: 4901234567")
	assert.Contains(t, text, "pieces_match")
}

func TestMatchLogSuppressesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matched.log")
	log := NewMatchLog(path, newMemoryLedger())

	require.NoError(t, log.Append(context.Background(), sampleReport()))
	require.NoError(t, log.Append(context.Background(), sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(content), "Invoice No: 4901234567"))
	assert.Equal(t, 1, strings.Count(string(content), "AWB FILE:"))
}

func TestMatchLogNoMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matched.log")
	log := NewMatchLog(path, newMemoryLedger())

	report := sampleReport()
	report.MatchedInvoices = nil
	require.NoError(t, log.Append(context.Background(), report))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "No matches found")
}
