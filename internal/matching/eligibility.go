package matching

import "github.com/spigell/cupid-matcher/internal/profile"

// Verdict is the outcome of an eligibility check.
type Verdict int

const (
	Eligible Verdict = iota
	SelfMatch
	GenderMismatch
	AgeMismatch
)

func (v Verdict) String() string {
	switch v {
	case Eligible:
		return "eligible"
	case SelfMatch:
		return "self match"
	case GenderMismatch:
		return "gender mismatch"
	case AgeMismatch:
		return "age mismatch"
	default:
		return "unknown"
	}
}

// Err returns the typed error for a rejection, nil when eligible.
func (v Verdict) Err() error {
	switch v {
	case Eligible:
		return nil
	case SelfMatch:
		return newError(KindSelfMatch, "", nil)
	case AgeMismatch:
		return newError(KindAgeMismatch, "", nil)
	default:
		return newError(KindGenderMismatch, "", nil)
	}
}

// CheckEligibility decides whether target may be matched with requester.
// Rules run in a fixed order and the first failure wins: self match, then the
// gender/orientation matrix, then the requester's age window. Only the
// requester's preferences are consulted.
func CheckEligibility(requester, target *profile.Profile) Verdict {
	if requester == nil || target == nil {
		return GenderMismatch
	}
	if requester.ID == target.ID {
		return SelfMatch
	}
	if requester.PersonalInfo == nil || requester.Preferences == nil || target.PersonalInfo == nil {
		return GenderMismatch
	}

	prefs := requester.Preferences
	if !genderMatches(requester.PersonalInfo.Gender, prefs.SexualOrientation, prefs.GenderPreference, target.PersonalInfo.Gender) {
		return GenderMismatch
	}

	if prefs.MinAge != nil && prefs.MaxAge != nil {
		age := target.PersonalInfo.Age
		if age < *prefs.MinAge || age > *prefs.MaxAge {
			return AgeMismatch
		}
	}

	return Eligible
}

func genderMatches(requester profile.Gender, orientation profile.Orientation, pref profile.GenderPreference, target profile.Gender) bool {
	if !requester.Valid() || !target.Valid() || !orientation.Valid() || !pref.Valid() {
		return false
	}
	if pref == profile.PreferAll {
		return true
	}

	switch orientation {
	case profile.OrientationStraight:
		return (requester == profile.GenderMale && target == profile.GenderFemale) ||
			(requester == profile.GenderFemale && target == profile.GenderMale)
	case profile.OrientationGay, profile.OrientationLesbian:
		return requester == target
	case profile.OrientationBisexual, profile.OrientationPansexual:
		return string(target) == string(pref)
	default:
		return false
	}
}
