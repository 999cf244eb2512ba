package profile

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the supported genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

type Orientation string

const (
	OrientationStraight  Orientation = "straight"
	OrientationGay       Orientation = "gay"
	OrientationLesbian   Orientation = "lesbian"
	OrientationBisexual  Orientation = "bisexual"
	OrientationPansexual Orientation = "pansexual"
)

// Valid reports whether o is one of the supported orientations.
func (o Orientation) Valid() bool {
	switch o {
	case OrientationStraight, OrientationGay, OrientationLesbian, OrientationBisexual, OrientationPansexual:
		return true
	default:
		return false
	}
}

type GenderPreference string

const (
	PreferMale   GenderPreference = "male"
	PreferFemale GenderPreference = "female"
	PreferAll    GenderPreference = "all"
)

// Valid reports whether p is one of the supported gender preferences.
func (p GenderPreference) Valid() bool {
	switch p {
	case PreferMale, PreferFemale, PreferAll:
		return true
	default:
		return false
	}
}

// Profile is a person's full matching record.
type Profile struct {
	ID          string    `json:"cupidId" validate:"required"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`

	PersonalInfo         *PersonalInfo         `json:"personalInfo,omitempty" validate:"omitempty"`
	Preferences          *Preferences          `json:"preferences,omitempty" validate:"omitempty"`
	PsychologicalProfile *PsychologicalProfile `json:"psychologicalProfile,omitempty" validate:"omitempty"`
	RelationshipGoals    *RelationshipGoals    `json:"relationshipGoals,omitempty" validate:"omitempty"`
	BehavioralInsights   *BehavioralInsights   `json:"behavioralInsights,omitempty" validate:"omitempty"`
	Dealbreakers         *Dealbreakers         `json:"dealbreakers,omitempty" validate:"omitempty"`
}

type PersonalInfo struct {
	FullName            string `json:"fullName,omitempty"`
	Age                 int    `json:"age,omitempty" validate:"omitempty,gt=0,lt=150"`
	Gender              Gender `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Location            string `json:"location,omitempty"`
	Occupation          string `json:"occupation,omitempty"`
	RelationshipHistory string `json:"relationshipHistory,omitempty"`
	Lifestyle           string `json:"lifestyle,omitempty"`
}

type Preferences struct {
	Interests           []string         `json:"interests,omitempty"`
	MinAge              *int             `json:"minAge,omitempty" validate:"omitempty,gt=0"`
	MaxAge              *int             `json:"maxAge,omitempty" validate:"omitempty,gt=0"`
	SexualOrientation   Orientation      `json:"sexualOrientation,omitempty" validate:"omitempty,oneof=straight gay lesbian bisexual pansexual"`
	GenderPreference    GenderPreference `json:"genderPreference,omitempty" validate:"omitempty,oneof=male female all"`
	EducationPreference string           `json:"educationPreference,omitempty"`
	PreferredDistance   string           `json:"preferredDistance,omitempty"`
}

// PsychologicalProfile holds trait scores on a 0-10 scale.
type PsychologicalProfile struct {
	Extroversion       float64 `json:"extroversion" validate:"gte=0,lte=10"`
	Openness           float64 `json:"openness" validate:"gte=0,lte=10"`
	Agreeableness      float64 `json:"agreeableness" validate:"gte=0,lte=10"`
	Conscientiousness  float64 `json:"conscientiousness" validate:"gte=0,lte=10"`
	EmotionalStability float64 `json:"emotionalStability" validate:"gte=0,lte=10"`
	CommunicationStyle string  `json:"communicationStyle,omitempty"`
	ConflictResolution string  `json:"conflictResolution,omitempty"`
}

type RelationshipGoals struct {
	RelationshipType   string `json:"relationshipType,omitempty"`
	Timeline           string `json:"timeline,omitempty"`
	FamilyPlans        string `json:"familyPlans,omitempty"`
	RelationshipValues string `json:"relationshipValues,omitempty"`
}

type BehavioralInsights struct {
	LoveLanguage   string `json:"loveLanguage,omitempty"`
	SocialBattery  string `json:"socialBattery,omitempty"`
	StressResponse string `json:"stressResponse,omitempty"`
	DecisionMaking string `json:"decisionMaking,omitempty"`
}

type Dealbreakers struct {
	Items       []string `json:"dealbreakers,omitempty"`
	Notes       string   `json:"customDealbreakers,omitempty"`
	Flexibility string   `json:"dealbreakersFlexibility,omitempty"`
}

// CompatibilityScore is derived for a pair of profiles and never stored on its own.
type CompatibilityScore struct {
	Overall      float64 `json:"overall"`
	Emotional    float64 `json:"emotional"`
	Intellectual float64 `json:"intellectual"`
	Lifestyle    float64 `json:"lifestyle"`
	Details      Details `json:"details"`
}

type Details struct {
	Strengths  []string `json:"strengths"`
	Challenges []string `json:"challenges"`
}

// MatchedProfile is a target profile projected for one requester.
type MatchedProfile struct {
	Profile
	Compatibility CompatibilityScore `json:"compatibility"`
	Image         string             `json:"image"`
}

// Touch stamps the profile as updated at now, setting CreatedAt on first write.
func (p *Profile) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.LastUpdated = now
}

// Name returns the display name or the id when the personal info is missing.
func (p *Profile) Name() string {
	if p.PersonalInfo != nil && strings.TrimSpace(p.PersonalInfo.FullName) != "" {
		return p.PersonalInfo.FullName
	}
	return p.ID
}
