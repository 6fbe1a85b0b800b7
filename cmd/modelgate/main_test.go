package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modelgate/internal/evaluate"
	"modelgate/internal/metric"
)

// writeTestConfig points every path the commands touch into the temp dir.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "modelgate.yaml")
	content := fmt.Sprintf(`
store:
  kind: fs
  dir: %s
  model_key: model.pkl
  metric_key: metrics.yaml
report_path: %s
runlog_path: %s
`,
		filepath.Join(dir, "store"),
		filepath.Join(dir, "report.yaml"),
		filepath.Join(dir, "runs.db"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeCandidate(t *testing.T, dir string, score float64) (modelPath, metricsPath string) {
	t.Helper()
	modelPath = filepath.Join(dir, "trained-model.pkl")
	if err := os.WriteFile(modelPath, []byte("trained-weights"), 0o644); err != nil {
		t.Fatal(err)
	}
	metricsPath = filepath.Join(dir, "trained-metrics.yaml")
	if err := metric.WriteFile(metricsPath, metric.Record{F1Score: score}); err != nil {
		t.Fatal(err)
	}
	return modelPath, metricsPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvaluateThenPush(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	modelPath, metricsPath := writeCandidate(t, dir, 0.82)

	out, err := runCLI(t, "--config", cfgPath,
		"evaluate", "--model", modelPath, "--metrics", metricsPath)
	if err != nil {
		t.Fatalf("evaluate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ACCEPTED") {
		t.Fatalf("expected acceptance, got:\n%s", out)
	}

	rep, err := evaluate.ReadReport(filepath.Join(dir, "report.yaml"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !rep.IsModelAccepted || rep.TrainedModelF1Score != 0.82 || rep.BestModelF1Score != nil {
		t.Fatalf("report = %+v", rep)
	}

	out, err = runCLI(t, "--config", cfgPath,
		"push", "--model", modelPath, "--metrics", metricsPath)
	if err != nil {
		t.Fatalf("push: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "store", "model.pkl")); err != nil {
		t.Fatalf("model not promoted: %v", err)
	}

	// Second candidate loses to the now-deployed 0.82 and must be rejected.
	secondDir := filepath.Join(dir, "second")
	if err := os.MkdirAll(secondDir, 0o755); err != nil {
		t.Fatal(err)
	}
	model2, metrics2 := writeCandidate(t, secondDir, 0.75)
	out, err = runCLI(t, "--config", cfgPath,
		"evaluate", "--model", model2, "--metrics", metrics2)
	if err != nil {
		t.Fatalf("second evaluate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "REJECTED") {
		t.Fatalf("expected rejection, got:\n%s", out)
	}

	out, err = runCLI(t, "--config", cfgPath,
		"push", "--model", model2, "--metrics", metrics2)
	if err == nil {
		t.Fatalf("push of rejected decision should fail, got:\n%s", out)
	}
}

func TestStatus_FreshStore(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out, err := runCLI(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	if !strings.Contains(out, "fresh slot") {
		t.Fatalf("expected fresh-slot status, got:\n%s", out)
	}
}

func TestHistory_RecordsRuns(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	modelPath, metricsPath := writeCandidate(t, dir, 0.9)

	if out, err := runCLI(t, "--config", cfgPath,
		"evaluate", "--model", modelPath, "--metrics", metricsPath); err != nil {
		t.Fatalf("evaluate: %v\n%s", err, out)
	}

	out, err := runCLI(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "0.9000") {
		t.Fatalf("expected recorded run in history, got:\n%s", out)
	}
}
