package filtering

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/profile"
)

type excludedFilter struct {
	ids    []string
	logger *zap.Logger
}

// NewExcluded creates a filter that removes candidates listed in the exclude list.
func NewExcluded(ids []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excludedFilter{ids: ids, logger: logger}
}

func (f *excludedFilter) Name() string { return "excluded" }

func (f *excludedFilter) Validate() error { return nil }

func (f *excludedFilter) Apply(_ context.Context, candidates []*profile.Profile) ([]*profile.Profile, Step, error) {
	if len(f.ids) == 0 {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
	}

	kept, step, dropped := keep(candidates, func(c *profile.Profile) bool {
		return c == nil || !slices.Contains(f.ids, c.ID)
	})
	if len(dropped) > 0 {
		f.logger.Info("excluding candidates from exclude list",
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", step.Left),
		)
	}
	return kept, step, nil
}

func (f *excludedFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["ids"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Details: details}
}
