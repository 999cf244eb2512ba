// Package filtering narrows the candidate pool of a batch match search.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/profile"
)

// Filter represents a single step applied to the candidate list.
type Filter interface {
	Name() string
	Validate() error
	Apply(ctx context.Context, candidates []*profile.Profile) ([]*profile.Profile, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Filtering runs a fixed sequence of filters.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(logger *zap.Logger, steps ...Filter) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering{steps: steps, logger: logger}
}

// Run validates every filter and then applies them in order.
// The input slice is never modified.
func (f *Filtering) Run(ctx context.Context, candidates []*profile.Profile) ([]*profile.Profile, error) {
	for _, step := range f.steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	current := append([]*profile.Profile(nil), candidates...)
	for _, step := range f.steps {
		next, info, err := step.Apply(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		current = next
	}

	return current, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{Name: step.Name()})
	}
	return statuses
}

// keep returns the candidates accepted by pred together with step accounting.
func keep(candidates []*profile.Profile, pred func(*profile.Profile) bool) ([]*profile.Profile, Step, []string) {
	kept := make([]*profile.Profile, 0, len(candidates))
	var dropped []string
	for _, c := range candidates {
		if pred(c) {
			kept = append(kept, c)
			continue
		}
		if c != nil {
			dropped = append(dropped, c.ID)
		} else {
			dropped = append(dropped, "")
		}
	}
	return kept, Step{Initial: len(candidates), Dropped: len(candidates) - len(kept), Left: len(kept)}, dropped
}
