package app

import (
	"context"

	"github.com/emmett/voxtype/internal/fault"
	"github.com/emmett/voxtype/internal/llm"
	"github.com/emmett/voxtype/internal/quality"
)

// Refiner rewrites a raw transcript with the language model
type Refiner struct {
	Prompts     Prompter
	MaxTokens   int
	Temperature float64
}

// Refine returns the normalized refinement. When the session is missing,
// fails, or produces nothing usable it returns raw together with a
// RefinementFallback error saying why.
func (r Refiner) Refine(ctx context.Context, session llm.Session, raw string) (string, error) {
	if session == nil {
		return raw, fault.WithReason(fault.New(fault.RefinementFallback, "no language model loaded"), fault.ReasonNoModel)
	}

	// every cycle starts from an empty conversation
	session.Clear()
	refined, err := session.Send(ctx, r.Prompts.Build(raw), r.MaxTokens, r.Temperature)
	if err != nil {
		return raw, fault.Wrap(err, fault.RefinementFallback, "refinement failed")
	}

	refined = quality.Normalize(refined)
	if quality.ShouldDrop(refined) {
		return raw, fault.WithReason(fault.New(fault.RefinementFallback, "unusable refinement"), fault.ReasonDegenerate)
	}
	return refined, nil
}

// fallbackHint is the user-facing note for a refinement fallback
func fallbackHint(err error) string {
	switch fault.ReasonOf(err) {
	case fault.ReasonNoModel:
		return "No language model, inserting raw transcript"
	case fault.ReasonDegenerate:
		return "Refinement was empty, inserting raw transcript"
	}
	return "Refinement failed, inserting raw transcript"
}
