package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/ai"
	"github.com/spigell/cupid-matcher/internal/logger"
	"github.com/spigell/cupid-matcher/internal/profile"
	"github.com/spigell/cupid-matcher/internal/utils"
)

const (
	// overallTolerance is how far the model's own overall may drift from the
	// weighted sum before it is reported.
	overallTolerance = 0.01
	rawPreviewLength = 200
)

// External scores pairs through an AI assessor.
type External struct {
	assessor ai.Assessor
	logger   *zap.Logger
}

func NewExternal(assessor ai.Assessor, log *zap.Logger) *External {
	if log == nil {
		log = zap.NewNop()
	}
	return &External{assessor: assessor, logger: log}
}

// Score asks the assessor and validates its answer. The overall score is
// recomputed from the dimension scores with the fixed weights.
func (e *External) Score(ctx context.Context, a, b *profile.Profile) (profile.CompatibilityScore, error) {
	if e.assessor == nil {
		return profile.CompatibilityScore{}, errors.New("ai assessor is not configured")
	}

	assessment, err := e.assessor.Assess(ctx, a, b)
	if err != nil {
		return profile.CompatibilityScore{}, fmt.Errorf("%s assessment: %w", e.assessor.Provider(), err)
	}
	if assessment == nil {
		return profile.CompatibilityScore{}, fmt.Errorf("%s returned no assessment", e.assessor.Provider())
	}

	for name, v := range map[string]float64{
		"overall":      assessment.Overall,
		"emotional":    assessment.Emotional,
		"intellectual": assessment.Intellectual,
		"lifestyle":    assessment.Lifestyle,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			fields := append(logger.MatchFields(a.ID, b.ID),
				zap.String(logger.FieldProvider, e.assessor.Provider()),
				zap.String("dimension", name),
				zap.String("response_preview", utils.TruncateForLog(assessment.Raw, rawPreviewLength)),
			)
			e.logger.Debug("ai assessment rejected", fields...)
			return profile.CompatibilityScore{}, fmt.Errorf("%s returned %s=%v outside [0,1]", e.assessor.Provider(), name, v)
		}
	}

	overall := Overall(assessment.Emotional, assessment.Intellectual, assessment.Lifestyle)
	if assessment.Overall != 0 && math.Abs(assessment.Overall-overall) > overallTolerance {
		fields := append(logger.MatchFields(a.ID, b.ID),
			zap.String(logger.FieldProvider, e.assessor.Provider()),
			zap.Float64("ai_overall", assessment.Overall),
			zap.Float64("weighted_overall", overall),
			zap.String("response_preview", utils.TruncateForLog(assessment.Raw, rawPreviewLength)),
		)
		e.logger.Debug("ai overall score differs from weighted sum", fields...)
	}

	strengths := assessment.Strengths
	if strengths == nil {
		strengths = []string{}
	}
	challenges := assessment.Challenges
	if challenges == nil {
		challenges = []string{}
	}

	return profile.CompatibilityScore{
		Overall:      overall,
		Emotional:    assessment.Emotional,
		Intellectual: assessment.Intellectual,
		Lifestyle:    assessment.Lifestyle,
		Details: profile.Details{
			Strengths:  strengths,
			Challenges: challenges,
		},
	}, nil
}
