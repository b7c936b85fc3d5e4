package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/arnavasoni/tango/internal/cli"
	"github.com/arnavasoni/tango/internal/config"
	"github.com/arnavasoni/tango/internal/engine"
	"github.com/arnavasoni/tango/internal/ingest"
	"github.com/arnavasoni/tango/internal/report"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [combined-invoice-file]",
		Short: "Reconcile AWBs against their invoices",
		Long: `Reconcile every stored AWB against the stored invoices with the
category-specific checks, and append fresh matches to the match log.

With a file argument, the combined invoice extraction file is ingested first.

Examples:
  tango match invoice_all_output.txt  # Ingest invoices, then reconcile
  tango match                         # Reconcile with stored documents`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMatch,
	}
	return cmd
}

func runMatch(cmd *cobra.Command, args []string) error {
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

	if len(args) == 1 {
		envelopes, loadErr := ingest.LoadInvoices(args[0])
		if loadErr != nil {
			return loadErr
		}
		for _, env := range envelopes {
			if saveErr := db.SaveInvoice(ctx, env); saveErr != nil {
				return saveErr
			}
		}
		slog.Info("Ingested combined invoice file", "file", args[0], "invoices", len(envelopes))
	}

	reconciler, err := buildReconciler(ctx, settings)
	if err != nil {
		return err
	}

	awbs, err := db.GetAWBs(ctx)
	if err != nil {
		return err
	}
	invoices, err := db.GetInvoices(ctx)
	if err != nil {
		return err
	}

	candidates := make([]engine.Candidate, 0, len(invoices))
	for _, env := range invoices {
		candidates = append(candidates, engine.Candidate{
			SourceFile: env.SourceFile,
			Invoice:    env.Invoice,
		})
	}

	matchLog := report.NewMatchLog(settings.MatchLogPath, db)

	bar := progressbar.NewOptions(len(awbs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reconciling AWBs...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	matched := 0
	skipped := 0
	categories := make(map[string]int)
	for _, env := range awbs {
		done, err := db.HasReport(ctx, env.SourceFile)
		if err != nil {
			return err
		}
		if done {
			skipped++
			_ = bar.Add(1)
			continue
		}

		result := reconciler.Reconcile(ctx, env.AWB, env.SourceFile, candidates)

		if err := db.SaveAWB(ctx, env); err != nil {
			return err
		}
		if err := db.SaveReport(ctx, &result); err != nil {
			return err
		}
		if result.RequiresInvoice {
			if err := matchLog.Append(ctx, &result); err != nil {
				return err
			}
		}
		if len(result.MatchedInvoices) > 0 {
			matched++
		}
		categories[string(result.Category)]++
		_ = bar.Add(1)
	}

	fmt.Println()
	fmt.Println(cli.FormatTitle("Reconciliation complete"))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d of %d AWBs matched at least one invoice", matched, len(awbs)-skipped)))
	if skipped > 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %d already reconciled, skipped", skipped)))
	}
	printCategorySummary(categories)
	fmt.Println(cli.FormatInfo("Match log: " + settings.MatchLogPath))
	return nil
}

func printCategorySummary(categories map[string]int) {
	if len(categories) == 0 {
		return
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(cli.TableHeaderStyle.Render(cli.TableCellStyle.Render(fmt.Sprintf("%-28s", "Category")) + "AWBs"))
	for _, name := range names {
		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-28s", name)) + fmt.Sprintf("%4d", categories[name]))
	}
}
