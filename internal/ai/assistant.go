package ai

import (
	"context"

	"github.com/spigell/cupid-matcher/internal/profile"
)

// Assessment is the compatibility verdict of an external model. Fields the
// model did not return stay at their zero value.
type Assessment struct {
	Overall      float64
	Emotional    float64
	Intellectual float64
	Lifestyle    float64
	Strengths    []string
	Challenges   []string
	Raw          string
}

type Assessor interface {
	Assess(ctx context.Context, a, b *profile.Profile) (*Assessment, error)
	Provider() string
}
