package scoring

import (
	"context"
	"errors"
	"math"

	"github.com/spigell/cupid-matcher/internal/profile"
)

const (
	sharedInterestsCap       = 3
	sharedInterestsStrength  = 2
	maxEmotionalStabilityGap = 10.0
)

const (
	strengthLoveLanguage  = "Matching love languages enhance emotional connection"
	challengeLoveLanguage = "Different love languages require understanding and adaptation"
	strengthComm          = "Compatible communication styles promote understanding"
	challengeComm         = "Different communication styles may require extra effort"
	strengthRelType       = "Aligned relationship goals and expectations"
	challengeRelType      = "Different relationship expectations need discussion"
	strengthInterests     = "Multiple shared interests create strong bonds"
	challengeInterests    = "Need to explore and develop common interests"
)

// Local is the deterministic, offline scoring strategy.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Score(_ context.Context, a, b *profile.Profile) (profile.CompatibilityScore, error) {
	if !profile.IsComplete(a) || !profile.IsComplete(b) {
		return profile.CompatibilityScore{}, errors.New("local scoring requires two complete profiles")
	}

	emotional := emotionalScore(a, b)
	intellectual := intellectualScore(a, b)
	lifestyle := lifestyleScore(a, b)

	return profile.CompatibilityScore{
		Overall:      Overall(emotional, intellectual, lifestyle),
		Emotional:    emotional,
		Intellectual: intellectual,
		Lifestyle:    lifestyle,
		Details:      details(a, b),
	}, nil
}

func emotionalScore(a, b *profile.Profile) float64 {
	score := 0.0
	score += same(a.BehavioralInsights.LoveLanguage, b.BehavioralInsights.LoveLanguage)
	score += same(a.PsychologicalProfile.CommunicationStyle, b.PsychologicalProfile.CommunicationStyle)
	score += same(a.BehavioralInsights.SocialBattery, b.BehavioralInsights.SocialBattery)
	score += same(a.BehavioralInsights.StressResponse, b.BehavioralInsights.StressResponse)

	gap := math.Abs(a.PsychologicalProfile.EmotionalStability - b.PsychologicalProfile.EmotionalStability)
	score += clamp01((maxEmotionalStabilityGap - gap) / maxEmotionalStabilityGap)

	return score / 5
}

func intellectualScore(a, b *profile.Profile) float64 {
	score := 0.0
	shared := sharedCount(a.Preferences.Interests, b.Preferences.Interests)
	score += math.Min(float64(shared)/sharedInterestsCap, 1)
	score += same(a.Preferences.EducationPreference, b.Preferences.EducationPreference)
	score += same(a.BehavioralInsights.DecisionMaking, b.BehavioralInsights.DecisionMaking)
	score += same(a.RelationshipGoals.RelationshipValues, b.RelationshipGoals.RelationshipValues)

	return score / 4
}

func lifestyleScore(a, b *profile.Profile) float64 {
	score := 0.0
	score += same(a.RelationshipGoals.RelationshipType, b.RelationshipGoals.RelationshipType)
	score += same(a.RelationshipGoals.FamilyPlans, b.RelationshipGoals.FamilyPlans)
	score += same(a.RelationshipGoals.Timeline, b.RelationshipGoals.Timeline)
	score += same(a.Preferences.PreferredDistance, b.Preferences.PreferredDistance)
	if sharedCount(a.Dealbreakers.Items, b.Dealbreakers.Items) == 0 {
		score++
	}

	return score / 5
}

// details names one strength or one challenge per compared factor, in a fixed order.
func details(a, b *profile.Profile) profile.Details {
	d := profile.Details{Strengths: []string{}, Challenges: []string{}}

	add := func(match bool, strength, challenge string) {
		if match {
			d.Strengths = append(d.Strengths, strength)
			return
		}
		d.Challenges = append(d.Challenges, challenge)
	}

	add(a.BehavioralInsights.LoveLanguage == b.BehavioralInsights.LoveLanguage, strengthLoveLanguage, challengeLoveLanguage)
	add(a.PsychologicalProfile.CommunicationStyle == b.PsychologicalProfile.CommunicationStyle, strengthComm, challengeComm)
	add(a.RelationshipGoals.RelationshipType == b.RelationshipGoals.RelationshipType, strengthRelType, challengeRelType)
	add(sharedCount(a.Preferences.Interests, b.Preferences.Interests) > sharedInterestsStrength, strengthInterests, challengeInterests)

	return d
}

func same(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}

// sharedCount returns the size of the intersection of two string sets.
func sharedCount(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	count := 0
	for _, item := range b {
		if _, ok := set[item]; ok {
			count++
			delete(set, item)
		}
	}
	return count
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
