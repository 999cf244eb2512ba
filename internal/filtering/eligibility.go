package filtering

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/profile"
)

// EligibilityCheck reports whether target may be shown to requester and,
// when not, a short reason.
type EligibilityCheck func(requester, target *profile.Profile) (ok bool, reason string)

type eligibilityFilter struct {
	requester *profile.Profile
	check     EligibilityCheck
	logger    *zap.Logger
}

// NewEligibility creates a filter that removes candidates the requester is not eligible to match.
func NewEligibility(requester *profile.Profile, check EligibilityCheck, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &eligibilityFilter{requester: requester, check: check, logger: logger}
}

func (f *eligibilityFilter) Name() string { return "eligibility" }

func (f *eligibilityFilter) Validate() error {
	if f.requester == nil {
		return errors.New("requester profile is required")
	}
	if f.check == nil {
		return errors.New("eligibility check is required")
	}
	return nil
}

func (f *eligibilityFilter) Apply(_ context.Context, candidates []*profile.Profile) ([]*profile.Profile, Step, error) {
	kept, step, _ := keep(candidates, func(c *profile.Profile) bool {
		if c == nil {
			return false
		}
		ok, reason := f.check(f.requester, c)
		if !ok {
			f.logger.Debug("dropping ineligible candidate",
				zap.String("requester_id", f.requester.ID),
				zap.String("target_id", c.ID),
				zap.String("reason", reason),
			)
		}
		return ok
	})
	return kept, step, nil
}

func (f *eligibilityFilter) Status() Status {
	details := map[string]string{}
	if f.requester != nil && f.requester.Preferences != nil {
		details["orientation"] = string(f.requester.Preferences.SexualOrientation)
		details["gender_preference"] = string(f.requester.Preferences.GenderPreference)
	}
	return Status{Name: f.Name(), Details: details}
}
