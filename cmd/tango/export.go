package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnavasoni/tango/internal/cli"
	"github.com/arnavasoni/tango/internal/config"
	"github.com/arnavasoni/tango/internal/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored reconciliation reports to an Excel tracker",
		Long: `Write all stored reconciliation reports into an Excel workbook,
one row per AWB.

Examples:
  tango export                       # Write to the configured report dir
  tango export --output tracker.xlsx # Write to an explicit path`,
		RunE: runExport,
	}
	cmd.Flags().StringP("output", "o", "", "output workbook path (default: <report-dir>/AWB_Invoice_Tracker_<date>.xlsx)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStorage(db)

	reports, err := db.GetReports(ctx)
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		if err := os.MkdirAll(settings.ReportDir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		name := fmt.Sprintf("AWB_Invoice_Tracker_%s.xlsx", time.Now().Format("2006-01-02"))
		output = filepath.Join(settings.ReportDir, name)
	}

	if err := report.WriteWorkbook(output, reports); err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " Tracker export"))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d reports to %s", len(reports), output)))
	return nil
}
