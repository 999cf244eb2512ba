package profile

import "strings"

const (
	SectionPersonalInfo         = "personalInfo"
	SectionPreferences          = "preferences"
	SectionPsychologicalProfile = "psychologicalProfile"
	SectionRelationshipGoals    = "relationshipGoals"
	SectionBehavioralInsights   = "behavioralInsights"
	SectionDealbreakers         = "dealbreakers"
)

// IsComplete reports whether the profile may take part in matching:
// it has an id and every section carries at least one value.
func IsComplete(p *Profile) bool {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return false
	}
	return len(MissingSections(p)) == 0
}

// MissingSections returns the names of empty sections in a fixed order.
func MissingSections(p *Profile) []string {
	if p == nil {
		return []string{
			SectionPersonalInfo, SectionPreferences, SectionPsychologicalProfile,
			SectionRelationshipGoals, SectionBehavioralInsights, SectionDealbreakers,
		}
	}

	var missing []string
	if p.PersonalInfo.empty() {
		missing = append(missing, SectionPersonalInfo)
	}
	if p.Preferences.empty() {
		missing = append(missing, SectionPreferences)
	}
	if p.PsychologicalProfile.empty() {
		missing = append(missing, SectionPsychologicalProfile)
	}
	if p.RelationshipGoals.empty() {
		missing = append(missing, SectionRelationshipGoals)
	}
	if p.BehavioralInsights.empty() {
		missing = append(missing, SectionBehavioralInsights)
	}
	if p.Dealbreakers.empty() {
		missing = append(missing, SectionDealbreakers)
	}
	return missing
}

func (s *PersonalInfo) empty() bool {
	return s == nil || (*s == PersonalInfo{})
}

func (s *Preferences) empty() bool {
	if s == nil {
		return true
	}
	return len(s.Interests) == 0 && s.MinAge == nil && s.MaxAge == nil &&
		s.SexualOrientation == "" && s.GenderPreference == "" &&
		s.EducationPreference == "" && s.PreferredDistance == ""
}

func (s *PsychologicalProfile) empty() bool {
	return s == nil || (*s == PsychologicalProfile{})
}

func (s *RelationshipGoals) empty() bool {
	return s == nil || (*s == RelationshipGoals{})
}

func (s *BehavioralInsights) empty() bool {
	return s == nil || (*s == BehavioralInsights{})
}

func (s *Dealbreakers) empty() bool {
	if s == nil {
		return true
	}
	return len(s.Items) == 0 && s.Notes == "" && s.Flexibility == ""
}
