package evaluate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"modelgate/internal/artifact"
	"modelgate/internal/metric"
)

type recordedRun struct {
	decision   Decision
	reportPath string
}

// memRecorder is a Recorder fake capturing what would go to the run log.
type memRecorder struct {
	runs []recordedRun
	err  error
}

func (r *memRecorder) RecordDecision(_ context.Context, d Decision, reportPath string) error {
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, recordedRun{decision: d, reportPath: reportPath})
	return nil
}

func newEvaluator(t *testing.T, store artifact.Store, rec Recorder) *Evaluator {
	t.Helper()
	return &Evaluator{
		Resolver:   newResolver(store),
		ReportPath: filepath.Join(t.TempDir(), "report.yaml"),
		Recorder:   rec,
	}
}

func trainedModel(t *testing.T, score float64) CandidateModel {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.pkl")
	if err := os.WriteFile(path, []byte("trained-weights"), 0o644); err != nil {
		t.Fatal(err)
	}
	return CandidateModel{ModelPath: path, Metric: metric.Record{F1Score: score}}
}

// Scenario A: trained 0.82, fresh store with no best model.
func TestEvaluator_FreshDeployment(t *testing.T) {
	store := artifact.NewMemStore()
	rec := &memRecorder{}
	ev := newEvaluator(t, store, rec)

	res, err := ev.Run(context.Background(), trainedModel(t, 0.82))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Decision.Accepted {
		t.Error("fresh deployment with positive score must be accepted")
	}
	if res.Decision.BestScore != nil {
		t.Errorf("BestScore = %v, want nil", *res.Decision.BestScore)
	}
	if res.Decision.Delta != 0.82 {
		t.Errorf("Delta = %v, want 0.82", res.Decision.Delta)
	}
	if res.BestVersion != "" {
		t.Errorf("BestVersion = %q, want empty on fresh slot", res.BestVersion)
	}

	rep, err := ReadReport(res.ReportPath)
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if rep.BestModelF1Score != nil || !rep.IsModelAccepted || rep.TrainedModelF1Score != 0.82 {
		t.Errorf("report = %+v", rep)
	}

	if len(rec.runs) != 1 || rec.runs[0].decision != res.Decision {
		t.Errorf("recorded runs = %+v", rec.runs)
	}
}

// Scenario B: trained 0.75 against deployed 0.80.
func TestEvaluator_RejectsWorseCandidate(t *testing.T) {
	store := artifact.NewMemStore()
	store.PutBytes(context.Background(), testModelKey, []byte("deployed"))
	putMetric(t, store, testMetricKey, 0.80)
	ev := newEvaluator(t, store, &memRecorder{})

	res, err := ev.Run(context.Background(), trainedModel(t, 0.75))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Decision.Accepted {
		t.Error("worse candidate must be rejected")
	}
	if res.Decision.Delta != 0.75-0.80 {
		t.Errorf("Delta = %v, want %v", res.Decision.Delta, 0.75-0.80)
	}
	if res.BestVersion == "" {
		t.Error("BestVersion should carry the resolved slot token")
	}

	rep, _ := ReadReport(res.ReportPath)
	if rep.IsModelAccepted {
		t.Error("report must record the rejection")
	}
	if rep.BestModelF1Score == nil || *rep.BestModelF1Score != 0.80 {
		t.Errorf("best_model_f1_score = %v, want 0.80", rep.BestModelF1Score)
	}
}

// Scenario C: tie at 0.80 keeps the deployed model.
func TestEvaluator_TieKeepsDeployedModel(t *testing.T) {
	store := artifact.NewMemStore()
	store.PutBytes(context.Background(), testModelKey, []byte("deployed"))
	putMetric(t, store, testMetricKey, 0.80)
	ev := newEvaluator(t, store, &memRecorder{})

	res, err := ev.Run(context.Background(), trainedModel(t, 0.80))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Decision.Accepted {
		t.Error("tie must be rejected")
	}
	if res.Decision.Delta != 0 {
		t.Errorf("Delta = %v, want 0", res.Decision.Delta)
	}
}

func TestEvaluator_ResolverFailureWritesNoReport(t *testing.T) {
	store := artifact.NewMemStore()
	store.PutBytes(context.Background(), testModelKey, []byte("deployed"))
	// Metric record missing: inconsistent slot.
	rec := &memRecorder{}
	ev := newEvaluator(t, store, rec)

	_, err := ev.Run(context.Background(), trainedModel(t, 0.9))
	if !errors.Is(err, ErrInconsistentState) {
		t.Fatalf("Run() error = %v, want ErrInconsistentState", err)
	}
	if _, err := os.Stat(ev.ReportPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("no report may be written when the run aborts")
	}
	if len(rec.runs) != 0 {
		t.Error("no run may be recorded when the run aborts")
	}
}

func TestEvaluator_RecorderFailureFailsRun(t *testing.T) {
	store := artifact.NewMemStore()
	ev := newEvaluator(t, store, &memRecorder{err: errors.New("db locked")})

	_, err := ev.Run(context.Background(), trainedModel(t, 0.9))
	if err == nil {
		t.Fatal("Run() should surface recorder failure")
	}
}
