// Package report renders reconciliation results for human review: an Excel
// tracker workbook and an append-only text match log.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/arnavasoni/tango/internal/model"
)

const trackerSheet = "AWB Invoice Tracker"

var trackerHeaders = []string{
	"AWB ID", "AWB File", "Country", "Category", "Requires Invoice",
	"Matched Rules", "Matched Invoices", "Candidates", "Scope", "Error",
}

// WriteWorkbook writes all reports into an Excel tracker at filename, one row
// per AWB.
func WriteWorkbook(filename string, reports []*model.ReconciliationReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(trackerSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range trackerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(trackerSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(trackerSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for rowIdx, report := range reports {
		row := rowIdx + 2
		values := []any{
			report.AWBIdentifier,
			report.SourceFile,
			string(report.Country),
			string(report.Category),
			report.RequiresInvoice,
			strings.Join(report.MatchedRules, "; "),
			matchedNumbers(report),
			len(report.AllResults),
			reportScope(report),
			report.Err,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(trackerSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	for i := range trackerHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(trackerSheet, col, col, 20); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func matchedNumbers(report *model.ReconciliationReport) string {
	numbers := make([]string, 0, len(report.MatchedInvoices))
	for _, m := range report.MatchedInvoices {
		numbers = append(numbers, m.InvoiceNumber)
	}
	return strings.Join(numbers, "; ")
}

func reportScope(report *model.ReconciliationReport) string {
	for _, m := range report.MatchedInvoices {
		return string(m.Scope)
	}
	return ""
}

func evidenceJSON(evidence model.Evidence) string {
	data, err := json.MarshalIndent(evidence, "    ", "    ")
	if err != nil {
		return fmt.Sprintf("%v", evidence)
	}
	return string(data)
}
