// Package promote copies an accepted candidate over the "current best" slot
// in the artifact store. It is the only writer of that slot; the evaluation
// core never performs the copy itself.
package promote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"modelgate/internal/artifact"
	"modelgate/internal/evaluate"
	"modelgate/internal/metric"
)

// Errors the CLI branches on.
var (
	// ErrNotAccepted reports an attempt to promote a rejected decision.
	ErrNotAccepted = errors.New("promote: decision not accepted")
	// ErrSlotConflict reports a lost race: another run promoted into the
	// slot after this run resolved it.
	ErrSlotConflict = errors.New("promote: best-model slot changed since resolve")
)

// Pusher uploads a trained model and its metric record to the well-known
// best-model keys.
type Pusher struct {
	Store     artifact.Store
	ModelKey  string
	MetricKey string
	Logger    *slog.Logger
}

// Push promotes the evaluated candidate. The model binary and the metric
// record upload concurrently; both must succeed.
//
// When the store supports conditional writes and the result carries a
// resolve-time version token, the model upload is a compare-and-swap and a
// concurrent promotion surfaces as ErrSlotConflict. Stores without that
// support keep the original last-writer-wins behavior.
func (p *Pusher) Push(ctx context.Context, res *evaluate.Result, trainedMetric metric.Record) error {
	if !res.Decision.Accepted {
		return ErrNotAccepted
	}
	log := p.logger()

	modelData, err := os.ReadFile(res.TrainedModelPath)
	if err != nil {
		return fmt.Errorf("read trained model %s: %w", res.TrainedModelPath, err)
	}
	metricData, err := metric.Encode(trainedMetric)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.putModel(gctx, modelData, res.BestVersion)
	})
	g.Go(func() error {
		if err := p.Store.PutBytes(gctx, p.MetricKey, metricData); err != nil {
			return fmt.Errorf("upload metric %s: %w", p.MetricKey, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("model promoted",
		"model_key", p.ModelKey, "f1_score", trainedMetric.F1Score)
	return nil
}

// putModel uploads the model binary. With a version token and a store that
// supports it, the write is a compare-and-swap against the resolve-time
// snapshot; otherwise it keeps the original last-writer-wins behavior.
func (p *Pusher) putModel(ctx context.Context, data []byte, version string) error {
	if version != "" {
		if cs, ok := p.Store.(artifact.ConditionalStore); ok {
			err := cs.PutBytesIf(ctx, p.ModelKey, data, version)
			if errors.Is(err, artifact.ErrPrecondition) {
				return fmt.Errorf("%w: %s", ErrSlotConflict, p.ModelKey)
			}
			if err != nil {
				return fmt.Errorf("upload model %s: %w", p.ModelKey, err)
			}
			return nil
		}
		p.logger().Warn("store does not support conditional writes, promoting unconditionally",
			"model_key", p.ModelKey)
	}
	if err := p.Store.PutBytes(ctx, p.ModelKey, data); err != nil {
		return fmt.Errorf("upload model %s: %w", p.ModelKey, err)
	}
	return nil
}

func (p *Pusher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
