package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arnavasoni/tango/internal/classify"
	"github.com/arnavasoni/tango/internal/cli"
	"github.com/arnavasoni/tango/internal/config"
	"github.com/arnavasoni/tango/internal/ingest"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [combined-awb-file]",
		Short: "Classify Air Waybills into trade lanes",
		Long: `Classify AWBs through the rule cascade and store the results.

With a file argument, the combined extraction file is ingested first. Without
one, every stored AWB that is still unclassified gets classified.

Examples:
  tango classify awb_all_output.txt   # Ingest and classify a combined file
  tango classify                      # Classify stored AWBs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClassify,
	}
	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
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
		envelopes, loadErr := ingest.LoadAWBs(args[0])
		if loadErr != nil {
			return loadErr
		}
		for _, env := range envelopes {
			if saveErr := db.SaveAWB(ctx, env); saveErr != nil {
				return saveErr
			}
		}
		slog.Info("Ingested combined AWB file", "file", args[0], "awbs", len(envelopes))
	}

	awbs, err := db.GetAWBs(ctx)
	if err != nil {
		return err
	}

	classifier := classify.New()
	classified := 0
	unclassified := 0

	for _, env := range awbs {
		result := classifier.Classify(env.AWB, nil)
		if result.IsClassified() {
			classified++
		} else {
			unclassified++
		}
		if err := db.SaveAWB(ctx, env); err != nil {
			return err
		}
		slog.Debug("Classified AWB",
			"awb", env.AWB.Identifier(),
			"country", result.Country,
			"category", result.Category)
	}

	fmt.Println(cli.FormatTitle("Classification complete"))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d classified", classified)))
	if unclassified > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d unclassified", unclassified)))
	}
	return nil
}
