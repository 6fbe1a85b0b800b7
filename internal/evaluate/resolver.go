package evaluate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"modelgate/internal/artifact"
	"modelgate/internal/metric"
)

// ErrInconsistentState marks a best-model slot where the model artifact and
// its metric record disagree about existence. This is never treated as "no
// best model": promoting over a half-written slot hides real corruption.
var ErrInconsistentState = errors.New("evaluate: best-model slot inconsistent")

// BestModel is a read-only snapshot of the currently promoted model.
type BestModel struct {
	ModelKey string
	Metric   metric.Record
	// Version is the model object's store version token at resolve time.
	// A conditional promotion passes it back to detect concurrent writers.
	Version string
}

// Resolver loads the current best model's metric record from the artifact
// store. Read-only; it never mutates the store.
type Resolver struct {
	Store     artifact.Store
	ModelKey  string
	MetricKey string
	Logger    *slog.Logger
}

// ResolveBest returns the currently promoted model, or nil if no model has
// ever been promoted (a normal state on first deployment, not an error).
//
// A model artifact present without its metric record fails with
// ErrInconsistentState. Storage failures propagate wrapped.
func (r *Resolver) ResolveBest(ctx context.Context) (*BestModel, error) {
	log := r.logger()

	modelExists, err := r.Store.Exists(ctx, r.ModelKey)
	if err != nil {
		return nil, fmt.Errorf("check best model %s: %w", r.ModelKey, err)
	}
	if !modelExists {
		log.Info("no best model in store", "model_key", r.ModelKey)
		return nil, nil
	}

	metricExists, err := r.Store.Exists(ctx, r.MetricKey)
	if err != nil {
		return nil, fmt.Errorf("check best metric %s: %w", r.MetricKey, err)
	}
	if !metricExists {
		return nil, fmt.Errorf("%w: model %s present but metric %s missing",
			ErrInconsistentState, r.ModelKey, r.MetricKey)
	}

	data, err := r.Store.GetBytes(ctx, r.MetricKey)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			// Deleted between the existence check and the read.
			return nil, fmt.Errorf("%w: metric %s vanished during resolve",
				ErrInconsistentState, r.MetricKey)
		}
		return nil, fmt.Errorf("fetch best metric %s: %w", r.MetricKey, err)
	}
	rec, err := metric.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode best metric %s: %w", r.MetricKey, err)
	}

	best := &BestModel{ModelKey: r.ModelKey, Metric: rec}
	if info, err := r.Store.Stat(ctx, r.ModelKey); err == nil {
		best.Version = info.Version
	}
	log.Info("resolved best model", "model_key", r.ModelKey, "f1_score", rec.F1Score)
	return best, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
