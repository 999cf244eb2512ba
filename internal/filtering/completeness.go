package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/profile"
)

type completenessFilter struct {
	logger *zap.Logger
}

// NewCompleteness creates a filter that removes candidates with unfinished profiles.
func NewCompleteness(logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &completenessFilter{logger: logger}
}

func (f *completenessFilter) Name() string { return "completeness" }

func (f *completenessFilter) Validate() error { return nil }

func (f *completenessFilter) Apply(_ context.Context, candidates []*profile.Profile) ([]*profile.Profile, Step, error) {
	kept, step, _ := keep(candidates, func(c *profile.Profile) bool {
		if profile.IsComplete(c) {
			return true
		}
		if c != nil {
			f.logger.Debug("dropping incomplete candidate",
				zap.String("target_id", c.ID),
				zap.String("missing_sections", strings.Join(profile.MissingSections(c), ",")),
			)
		}
		return false
	})
	return kept, step, nil
}
