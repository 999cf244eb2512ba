package filtering

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/cupid-matcher/internal/profile"
)

type selfFilter struct {
	requesterID string
}

// NewSelf creates a filter that removes the requester from its own candidate list.
func NewSelf(requesterID string) Filter {
	return &selfFilter{requesterID: requesterID}
}

func (f *selfFilter) Name() string { return "self" }

func (f *selfFilter) Validate() error {
	if strings.TrimSpace(f.requesterID) == "" {
		return errors.New("requester id is required")
	}
	return nil
}

func (f *selfFilter) Apply(_ context.Context, candidates []*profile.Profile) ([]*profile.Profile, Step, error) {
	kept, step, _ := keep(candidates, func(c *profile.Profile) bool {
		return c == nil || c.ID != f.requesterID
	})
	return kept, step, nil
}

func (f *selfFilter) Status() Status {
	return Status{Name: f.Name(), Details: map[string]string{"requester_id": f.requesterID}}
}
