package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelgate/internal/evaluate"
	"modelgate/internal/logging"
	"modelgate/internal/metric"
	"modelgate/internal/promote"
)

var pushFlags struct {
	modelPath     string
	metricsPath   string
	reportPath    string
	expectVersion string
	store         storeFlags
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Promote an accepted model to the best-model slot in the store",
	Long: "Push reads the evaluation report and, only when the decision was\n" +
		"accepted, copies the trained model and its metrics over the deployed\n" +
		"best-model keys.",
	RunE: runPush,
}

func init() {
	f := pushCmd.Flags()
	f.StringVarP(&pushFlags.modelPath, "model", "m", "", "Trained model artifact path (required)")
	f.StringVar(&pushFlags.metricsPath, "metrics", "", "Trained model metrics file path (required)")
	f.StringVar(&pushFlags.reportPath, "report", "", "Evaluation report path (default from config)")
	f.StringVar(&pushFlags.expectVersion, "expect-version", "", "Best-slot version token from evaluation time (enables compare-and-swap)")
	f.StringVar(&pushFlags.store.kind, "store", "", "Store kind: s3 or fs (default from config)")
	f.StringVar(&pushFlags.store.bucket, "bucket", "", "S3 bucket (default from config)")
	f.StringVar(&pushFlags.store.dir, "store-dir", "", "Local store directory for --store=fs")

	_ = pushCmd.MarkFlagRequired("model")
	_ = pushCmd.MarkFlagRequired("metrics")
}

func runPush(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sc := cfg.Store
	pushFlags.store.apply(&sc)

	reportPath := pushFlags.reportPath
	if reportPath == "" {
		reportPath = cfg.ReportPath
	}
	rep, err := evaluate.ReadReport(reportPath)
	if err != nil {
		return err
	}
	if !rep.IsModelAccepted {
		return fmt.Errorf("report %s: %w", reportPath, promote.ErrNotAccepted)
	}

	trainedMetric, err := metric.ReadFile(pushFlags.metricsPath)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, sc)
	if err != nil {
		return err
	}
	pusher := &promote.Pusher{
		Store:     store,
		ModelKey:  sc.ModelKey,
		MetricKey: sc.MetricKey,
		Logger:    logging.New("promote"),
	}
	res := &evaluate.Result{
		Decision:         evaluate.Decision{Accepted: true, TrainedScore: rep.TrainedModelF1Score},
		TrainedModelPath: pushFlags.modelPath,
		BestModelKey:     sc.ModelKey,
		BestVersion:      pushFlags.expectVersion,
		ReportPath:       reportPath,
	}
	if err := pusher.Push(ctx, res, trainedMetric); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s -> %s (f1_score %.4f)\n",
		pushFlags.modelPath, sc.ModelKey, trainedMetric.F1Score)
	return nil
}
