package identify

import (
	"context"

	"mediasort/internal/logging"
	"mediasort/internal/normalize"
)

// RescueResult pairs a rescued name with its decision.
type RescueResult struct {
	Name     string
	Decision Decision
}

// RunRescuePass retries classification for names that came back
// unclassified. Each name first gets a normal pass; if that still fails,
// auxiliary query candidates derived from the raw stem are injected one at
// a time, first success wins.
func (e *Engine) RunRescuePass(ctx context.Context, names []string) []RescueResult {
	e.ResetBudget()
	results := make([]RescueResult, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		results = append(results, RescueResult{Name: name, Decision: e.rescueOne(ctx, name)})
	}
	return results
}

func (e *Engine) rescueOne(ctx context.Context, name string) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("rescue panicked",
				logging.String(logging.FieldEventType, "rescue_panic"),
				logging.String("source", name),
				logging.Any("panic", r))
			decision = Decision{Kind: KindUnclassified, Detail: "internal error during rescue"}
		}
	}()

	decision = e.classify(ctx, name, nil)
	if decision.Confident() {
		return decision
	}

	stem := Stem(name)
	for _, cand := range normalize.RescueCandidates(stem) {
		if ctx.Err() != nil {
			return decision
		}
		rescued := e.classify(ctx, name, []string{cand})
		if rescued.Confident() {
			rescued.Detail = "rescued via " + cand
			return rescued
		}
	}
	return decision
}
