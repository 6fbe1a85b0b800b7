package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelgate/internal/display"
	"modelgate/internal/evaluate"
	"modelgate/internal/logging"
)

var statusFlags struct {
	store storeFlags
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the currently deployed best model",
	RunE:  runStatus,
}

func init() {
	f := statusCmd.Flags()
	f.StringVar(&statusFlags.store.kind, "store", "", "Store kind: s3 or fs (default from config)")
	f.StringVar(&statusFlags.store.bucket, "bucket", "", "S3 bucket (default from config)")
	f.StringVar(&statusFlags.store.dir, "store-dir", "", "Local store directory for --store=fs")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sc := cfg.Store
	statusFlags.store.apply(&sc)

	store, err := openStore(ctx, sc)
	if err != nil {
		return err
	}
	resolver := &evaluate.Resolver{
		Store:     store,
		ModelKey:  sc.ModelKey,
		MetricKey: sc.MetricKey,
		Logger:    logging.New("resolver"),
	}
	best, err := resolver.ResolveBest(ctx)
	if err != nil {
		return err
	}

	status := display.SlotStatus{ModelKey: sc.ModelKey, MetricKey: sc.MetricKey}
	if best != nil {
		status.Exists = true
		status.F1Score = best.Metric.F1Score
		status.Version = best.Version
		if info, err := store.Stat(ctx, sc.ModelKey); err == nil {
			status.Size = info.Size
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), display.StatusTable(status))
	return nil
}
