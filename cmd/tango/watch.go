package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arnavasoni/tango/internal/cli"
	"github.com/arnavasoni/tango/internal/common"
	"github.com/arnavasoni/tango/internal/config"
	"github.com/arnavasoni/tango/internal/engine"
	"github.com/arnavasoni/tango/internal/ingest"
	"github.com/arnavasoni/tango/internal/report"
	"github.com/arnavasoni/tango/internal/storage"
	"github.com/arnavasoni/tango/internal/watcher"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox folders and reconcile continuously",
		Long: `Watch the AWB and invoice inbox directories. New extraction files are
ingested, AWBs are classified and reconciled against the stored invoices, and
fresh matches are appended to the match log. Handled files move to the
processed directory.

Runs until interrupted.`,
		RunE: runWatch,
	}
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(nil)
	ctx := handler.HandleInterrupts(cmd.Context())

	db, err := openStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStorage(db)

	reconciler, err := buildReconciler(ctx, settings)
	if err != nil {
		return err
	}

	pipeline := &watchPipeline{
		db:         db,
		reconciler: reconciler,
		matchLog:   report.NewMatchLog(settings.MatchLogPath, db),
		processed:  settings.ProcessedDir,
	}

	awbWatcher, err := watcher.NewInboxWatcher(settings.AWBInbox, pipeline.handleAWBFile)
	if err != nil {
		return err
	}
	invWatcher, err := watcher.NewInboxWatcher(settings.InvoiceInbox, pipeline.handleInvoiceFile)
	if err != nil {
		return err
	}

	if err := awbWatcher.Start(ctx); err != nil {
		return err
	}
	defer awbWatcher.Stop()
	if err := invWatcher.Start(ctx); err != nil {
		return err
	}
	defer invWatcher.Stop()

	fmt.Println(cli.FormatTitle("Watching inboxes"))
	fmt.Println(cli.FormatInfo("AWB inbox: " + settings.AWBInbox))
	fmt.Println(cli.FormatInfo("Invoice inbox: " + settings.InvoiceInbox))

	<-ctx.Done()
	return nil
}

// watchPipeline ties the inbox watchers to ingestion and reconciliation.
type watchPipeline struct {
	db         *storage.SQLiteStorage
	reconciler *engine.Reconciler
	matchLog   *report.MatchLog
	processed  string
}

func (p *watchPipeline) handleAWBFile(ctx context.Context, path string) error {
	ingested, err := p.ingest(ctx, path, true)
	if err != nil || ingested == 0 {
		return err
	}
	return p.reconcileAll(ctx)
}

func (p *watchPipeline) handleInvoiceFile(ctx context.Context, path string) error {
	ingested, err := p.ingest(ctx, path, false)
	if err != nil || ingested == 0 {
		return err
	}
	return p.reconcileAll(ctx)
}

func (p *watchPipeline) ingest(ctx context.Context, path string, isAWB bool) (int, error) {
	done, err := p.db.IsFileProcessed(ctx, path)
	if err != nil {
		return 0, err
	}
	if done {
		slog.Debug("Skipping already processed file", "path", path)
		return 0, nil
	}

	envelopes, err := ingest.LoadEnvelopes(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, env := range envelopes {
		switch {
		case isAWB && env.AWB != nil:
			if err := p.db.SaveAWB(ctx, env); err != nil {
				return count, err
			}
			count++
		case !isAWB && env.Invoice != nil:
			if err := p.db.SaveInvoice(ctx, env); err != nil {
				return count, err
			}
			count++
		}
	}

	if err := p.db.MarkFileProcessed(ctx, path); err != nil {
		return count, err
	}
	if _, err := watcher.MoveToProcessed(path, p.processed); err != nil {
		return count, err
	}

	common.LogInfo("Ingested inbox file", common.Fields{"path": path, "documents": count})
	return count, nil
}

func (p *watchPipeline) reconcileAll(ctx context.Context) error {
	awbs, err := p.db.GetAWBs(ctx)
	if err != nil {
		return err
	}
	invoices, err := p.db.GetInvoices(ctx)
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

	for _, env := range awbs {
		done, err := p.db.HasReport(ctx, env.SourceFile)
		if err != nil {
			return err
		}
		if done {
			slog.Debug("Skipping already reconciled AWB", "file", env.SourceFile)
			continue
		}

		result := p.reconciler.Reconcile(ctx, env.AWB, env.SourceFile, candidates)

		if err := p.db.SaveAWB(ctx, env); err != nil {
			return err
		}
		if err := p.db.SaveReport(ctx, &result); err != nil {
			common.LogError(err, "Failed to save reconciliation report",
				common.Fields{"awb_file": env.SourceFile})
			return err
		}
		if result.RequiresInvoice {
			if err := p.matchLog.Append(ctx, &result); err != nil {
				return err
			}
		}
	}
	return nil
}
