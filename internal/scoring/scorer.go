// Package scoring computes compatibility between two eligible profiles.
package scoring

import (
	"context"

	"github.com/spigell/cupid-matcher/internal/profile"
)

const (
	EmotionalWeight    = 0.4
	IntellectualWeight = 0.3
	LifestyleWeight    = 0.3
)

// Scorer computes a compatibility score for two complete, eligible profiles.
// Callers must check completeness and eligibility first.
type Scorer interface {
	Score(ctx context.Context, a, b *profile.Profile) (profile.CompatibilityScore, error)
}

// Overall combines the dimension scores with the fixed weights.
func Overall(emotional, intellectual, lifestyle float64) float64 {
	return EmotionalWeight*emotional + IntellectualWeight*intellectual + LifestyleWeight*lifestyle
}
