// Package evaluate holds the promotion decision engine: it compares a newly
// trained model's score against the currently deployed best model (if any),
// produces an immutable decision record, and persists it as the evaluation
// report. Resolution of the best model happens strictly before the decision;
// the decision itself is pure arithmetic with no failure mode.
package evaluate

import "modelgate/internal/metric"

// Decision is the immutable outcome of one evaluation run.
// BestScore is nil when no model has ever been promoted.
type Decision struct {
	TrainedScore float64
	BestScore    *float64
	Accepted     bool
	Delta        float64
}

// Decide compares the trained model's metric against the current best.
//
// A missing best model floors the baseline at zero, so any positive-scoring
// candidate wins a fresh deployment. Acceptance requires a strict
// improvement: a tie keeps the deployed model, avoiding redeployment churn
// for noise-level differences. Delta is the exact float difference against
// the same baseline.
func Decide(trained metric.Record, best *metric.Record) Decision {
	baseline := 0.0
	var bestScore *float64
	if best != nil {
		baseline = best.F1Score
		s := best.F1Score
		bestScore = &s
	}
	return Decision{
		TrainedScore: trained.F1Score,
		BestScore:    bestScore,
		Accepted:     trained.F1Score > baseline,
		Delta:        trained.F1Score - baseline,
	}
}
