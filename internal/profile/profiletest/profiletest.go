// Package profiletest builds complete profiles for tests.
package profiletest

import (
	"time"

	"github.com/spigell/cupid-matcher/internal/profile"
)

// Option mutates a profile built by New.
type Option func(*profile.Profile)

// New returns a complete straight profile looking for the opposite gender.
// All categorical answers are shared, so two profiles built by New with the
// same options score identically on every equality factor.
func New(id string, gender profile.Gender, opts ...Option) *profile.Profile {
	pref := profile.PreferFemale
	if gender == profile.GenderFemale {
		pref = profile.PreferMale
	}

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &profile.Profile{
		ID:          id,
		CreatedAt:   ts,
		LastUpdated: ts,
		PersonalInfo: &profile.PersonalInfo{
			FullName:   "Test " + id,
			Age:        28,
			Gender:     gender,
			Location:   "Pune",
			Occupation: "Engineer",
			Lifestyle:  "Active",
		},
		Preferences: &profile.Preferences{
			Interests:           []string{"Yoga", "Travel", "Music", "Reading"},
			SexualOrientation:   profile.OrientationStraight,
			GenderPreference:    pref,
			EducationPreference: "bachelors",
			PreferredDistance:   "50",
		},
		PsychologicalProfile: &profile.PsychologicalProfile{
			Extroversion:       5,
			Openness:           6,
			Agreeableness:      7,
			Conscientiousness:  6,
			EmotionalStability: 7,
			CommunicationStyle: "direct",
			ConflictResolution: "collaborative",
		},
		RelationshipGoals: &profile.RelationshipGoals{
			RelationshipType:   "long-term",
			Timeline:           "few-months",
			FamilyPlans:        "want-children",
			RelationshipValues: "Trust and respect",
		},
		BehavioralInsights: &profile.BehavioralInsights{
			LoveLanguage:   "words",
			SocialBattery:  "moderate",
			StressResponse: "talk",
			DecisionMaking: "logical",
		},
		Dealbreakers: &profile.Dealbreakers{
			Items:       []string{"Smoking"},
			Flexibility: "moderate",
		},
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithAge(age int) Option {
	return func(p *profile.Profile) { p.PersonalInfo.Age = age }
}

func WithAgeWindow(minAge, maxAge int) Option {
	return func(p *profile.Profile) {
		p.Preferences.MinAge = &minAge
		p.Preferences.MaxAge = &maxAge
	}
}

func WithOrientation(o profile.Orientation, pref profile.GenderPreference) Option {
	return func(p *profile.Profile) {
		p.Preferences.SexualOrientation = o
		p.Preferences.GenderPreference = pref
	}
}

func WithLoveLanguage(l string) Option {
	return func(p *profile.Profile) { p.BehavioralInsights.LoveLanguage = l }
}

func WithInterests(interests ...string) Option {
	return func(p *profile.Profile) { p.Preferences.Interests = interests }
}

func WithDealbreakers(items ...string) Option {
	return func(p *profile.Profile) { p.Dealbreakers.Items = items }
}

func WithStability(v float64) Option {
	return func(p *profile.Profile) { p.PsychologicalProfile.EmotionalStability = v }
}

func WithRelationshipType(t string) Option {
	return func(p *profile.Profile) { p.RelationshipGoals.RelationshipType = t }
}

func WithCommunicationStyle(s string) Option {
	return func(p *profile.Profile) { p.PsychologicalProfile.CommunicationStyle = s }
}

// Without drops the named section, making the profile incomplete.
func Without(section string) Option {
	return func(p *profile.Profile) {
		switch section {
		case profile.SectionPersonalInfo:
			p.PersonalInfo = nil
		case profile.SectionPreferences:
			p.Preferences = nil
		case profile.SectionPsychologicalProfile:
			p.PsychologicalProfile = nil
		case profile.SectionRelationshipGoals:
			p.RelationshipGoals = nil
		case profile.SectionBehavioralInsights:
			p.BehavioralInsights = nil
		case profile.SectionDealbreakers:
			p.Dealbreakers = nil
		}
	}
}
