// Package metric defines the score record written alongside every trained
// model artifact and its YAML codec. The record is created once at training
// completion and never mutated; a new training run produces a new record.
package metric

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// ErrMalformedMetric marks a metric document that is present but unusable:
// unparsable YAML or a document without the f1_score field.
var ErrMalformedMetric = errors.New("metric: malformed record")

// Record holds the single scalar quality score for a model.
type Record struct {
	F1Score float64 `yaml:"f1_score"`
}

// Encode serializes the record as a small YAML document.
func Encode(r Record) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode metric: %w", err)
	}
	return data, nil
}

// Decode parses a metric record. A document that does not carry an f1_score
// field is rejected: a score of zero must be written explicitly, never
// assumed from an empty file.
func Decode(data []byte) (Record, error) {
	var doc struct {
		F1Score *float64 `yaml:"f1_score"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedMetric, err)
	}
	if doc.F1Score == nil {
		return Record{}, fmt.Errorf("%w: missing f1_score field", ErrMalformedMetric)
	}
	return Record{F1Score: *doc.F1Score}, nil
}

// ReadFile loads and decodes a metric record from disk.
func ReadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read metric %s: %w", path, err)
	}
	return Decode(data)
}

// WriteFile encodes the record and writes it to path, creating parent
// directories and overwriting any previous record.
func WriteFile(path string, r Record) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metric dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metric %s: %w", path, err)
	}
	return nil
}
