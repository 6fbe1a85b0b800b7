package evaluate

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// Report is the persisted form of a Decision: a small YAML document meant
// for human inspection and for the downstream pusher, which reads only
// is_model_accepted. best_model_f1_score serializes as null when no model
// was deployed. Field names are part of the pipeline contract.
type Report struct {
	TrainedModelF1Score float64  `yaml:"trained_model_f1_score"`
	BestModelF1Score    *float64 `yaml:"best_model_f1_score"`
	IsModelAccepted     bool     `yaml:"is_model_accepted"`
	Difference          float64  `yaml:"difference"`
}

// NewReport shapes a Decision into its report form.
func NewReport(d Decision) Report {
	return Report{
		TrainedModelF1Score: d.TrainedScore,
		BestModelF1Score:    d.BestScore,
		IsModelAccepted:     d.Accepted,
		Difference:          d.Delta,
	}
}

// WriteReport persists the decision at path, creating parent directories and
// overwriting any prior report. No append, no versioning: the report always
// reflects the latest run.
func WriteReport(path string, d Decision) error {
	data, err := yaml.Marshal(NewReport(d))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a previously written report, for the push stage.
func ReadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report %s: %w", path, err)
	}
	var rep Report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return Report{}, fmt.Errorf("parse report %s: %w", path, err)
	}
	return rep, nil
}
