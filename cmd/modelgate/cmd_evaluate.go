package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelgate/internal/evaluate"
	"modelgate/internal/logging"
	"modelgate/internal/metric"
	"modelgate/internal/promote"
	"modelgate/internal/runlog"
)

var evaluateFlags struct {
	modelPath   string
	metricsPath string
	reportPath  string
	store       storeFlags
	doPromote   bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compare a trained model against the deployed best and write the decision report",
	RunE:  runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVarP(&evaluateFlags.modelPath, "model", "m", "", "Trained model artifact path (required)")
	f.StringVar(&evaluateFlags.metricsPath, "metrics", "", "Trained model metrics file path (required)")
	f.StringVar(&evaluateFlags.reportPath, "report", "", "Report destination (default from config)")
	f.StringVar(&evaluateFlags.store.kind, "store", "", "Store kind: s3 or fs (default from config)")
	f.StringVar(&evaluateFlags.store.bucket, "bucket", "", "S3 bucket (default from config)")
	f.StringVar(&evaluateFlags.store.dir, "store-dir", "", "Local store directory for --store=fs")
	f.BoolVar(&evaluateFlags.doPromote, "promote", false, "Promote immediately when accepted")

	_ = evaluateCmd.MarkFlagRequired("model")
	_ = evaluateCmd.MarkFlagRequired("metrics")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sc := cfg.Store
	evaluateFlags.store.apply(&sc)

	store, err := openStore(ctx, sc)
	if err != nil {
		return err
	}

	trainedMetric, err := metric.ReadFile(evaluateFlags.metricsPath)
	if err != nil {
		return err
	}

	reportPath := evaluateFlags.reportPath
	if reportPath == "" {
		reportPath = cfg.ReportPath
	}

	log, err := runlog.Open(cfg.RunLogPath)
	if err != nil {
		return err
	}
	defer log.Close()

	ev := &evaluate.Evaluator{
		Resolver: &evaluate.Resolver{
			Store:     store,
			ModelKey:  sc.ModelKey,
			MetricKey: sc.MetricKey,
			Logger:    logging.New("resolver"),
		},
		ReportPath: reportPath,
		Recorder:   log,
		Logger:     logging.New("evaluate"),
	}

	res, err := ev.Run(ctx, evaluate.CandidateModel{
		ModelPath: evaluateFlags.modelPath,
		Metric:    trainedMetric,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	best := "none"
	if res.Decision.BestScore != nil {
		best = fmt.Sprintf("%.4f", *res.Decision.BestScore)
	}
	fmt.Fprintf(out, "Trained: %.4f  Best: %s  Difference: %+.4f\n",
		res.Decision.TrainedScore, best, res.Decision.Delta)
	if res.Decision.Accepted {
		fmt.Fprintln(out, "Decision: ACCEPTED")
	} else {
		fmt.Fprintln(out, "Decision: REJECTED (deployed model stays)")
	}
	fmt.Fprintf(out, "Report: %s\n", res.ReportPath)

	if !evaluateFlags.doPromote {
		return nil
	}
	if !res.Decision.Accepted {
		fmt.Fprintln(out, "Skipping promotion: candidate was not accepted")
		return nil
	}
	pusher := &promote.Pusher{
		Store:     store,
		ModelKey:  sc.ModelKey,
		MetricKey: sc.MetricKey,
		Logger:    logging.New("promote"),
	}
	if err := pusher.Push(ctx, res, trainedMetric); err != nil {
		return err
	}
	fmt.Fprintf(out, "Promoted %s -> %s\n", res.TrainedModelPath, sc.ModelKey)
	return nil
}
