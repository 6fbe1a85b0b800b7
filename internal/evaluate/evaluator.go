package evaluate

import (
	"context"
	"fmt"
	"log/slog"

	"modelgate/internal/metric"
)

// CandidateModel is the trained artifact handed in by the training stage:
// a loadable model file plus its already-computed metric record.
type CandidateModel struct {
	ModelPath string
	Metric    metric.Record
}

// Result is the fully populated evaluation artifact: the decision plus the
// paths the downstream pusher needs.
type Result struct {
	Decision         Decision
	TrainedModelPath string
	BestModelKey     string
	// BestVersion is the resolved slot's version token ("" when no best
	// model existed); the pusher uses it for a conditional promotion.
	BestVersion string
	ReportPath  string
}

// Recorder receives the outcome of a completed run for the audit trail.
// Implemented by runlog; nil disables recording.
type Recorder interface {
	RecordDecision(ctx context.Context, d Decision, reportPath string) error
}

// Evaluator composes resolve → decide → report for one evaluation run.
type Evaluator struct {
	Resolver   *Resolver
	ReportPath string
	Recorder   Recorder
	Logger     *slog.Logger
}

// Run executes one evaluation. The best model is resolved strictly before
// the decision and treated as a snapshot; any resolver failure aborts the
// run before a report is written, leaving the deployed model authoritative.
func (e *Evaluator) Run(ctx context.Context, trained CandidateModel) (*Result, error) {
	log := e.logger()
	log.Info("starting model evaluation",
		"trained_model", trained.ModelPath, "f1_score", trained.Metric.F1Score)

	best, err := e.Resolver.ResolveBest(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve best model: %w", err)
	}

	var bestMetric *metric.Record
	res := &Result{
		TrainedModelPath: trained.ModelPath,
		BestModelKey:     e.Resolver.ModelKey,
		ReportPath:       e.ReportPath,
	}
	if best != nil {
		bestMetric = &best.Metric
		res.BestVersion = best.Version
	}

	res.Decision = Decide(trained.Metric, bestMetric)
	log.Info("decision computed",
		"accepted", res.Decision.Accepted, "difference", res.Decision.Delta)

	if err := WriteReport(e.ReportPath, res.Decision); err != nil {
		return nil, err
	}
	if e.Recorder != nil {
		if err := e.Recorder.RecordDecision(ctx, res.Decision, e.ReportPath); err != nil {
			return nil, fmt.Errorf("record decision: %w", err)
		}
	}
	log.Info("evaluation complete", "report", e.ReportPath)
	return res, nil
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
