package matching

import (
	"testing"

	"github.com/spigell/cupid-matcher/internal/profile"
	"github.com/spigell/cupid-matcher/internal/profile/profiletest"
)

func withGender(g profile.Gender) profiletest.Option {
	return func(p *profile.Profile) { p.PersonalInfo.Gender = g }
}

func TestCheckEligibility(t *testing.T) {
	t.Parallel()

	straightMan := profiletest.New("CUPID-R", profile.GenderMale)
	bisexualAll := profiletest.New("CUPID-R", profile.GenderFemale,
		profiletest.WithOrientation(profile.OrientationBisexual, profile.PreferAll))

	tests := []struct {
		name      string
		requester *profile.Profile
		target    *profile.Profile
		want      Verdict
	}{
		{
			name:      "straight man and woman",
			requester: straightMan,
			target:    profiletest.New("CUPID-T", profile.GenderFemale),
			want:      Eligible,
		},
		{
			name:      "straight man and man",
			requester: straightMan,
			target:    profiletest.New("CUPID-T", profile.GenderMale),
			want:      GenderMismatch,
		},
		{
			name:      "straight woman and man",
			requester: profiletest.New("CUPID-R", profile.GenderFemale),
			target:    profiletest.New("CUPID-T", profile.GenderMale),
			want:      Eligible,
		},
		{
			name:      "straight man and other",
			requester: straightMan,
			target:    profiletest.New("CUPID-T", profile.GenderOther),
			want:      GenderMismatch,
		},
		{
			name:      "self match wins over everything",
			requester: straightMan,
			target:    profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAge(99)),
			want:      SelfMatch,
		},
		{
			name:      "preference all accepts male",
			requester: bisexualAll,
			target:    profiletest.New("CUPID-T", profile.GenderMale),
			want:      Eligible,
		},
		{
			name:      "preference all accepts female",
			requester: bisexualAll,
			target:    profiletest.New("CUPID-T", profile.GenderFemale),
			want:      Eligible,
		},
		{
			name:      "preference all accepts other",
			requester: bisexualAll,
			target:    profiletest.New("CUPID-T", profile.GenderOther),
			want:      Eligible,
		},
		{
			name: "preference all does not hide unknown orientation",
			requester: profiletest.New("CUPID-R", profile.GenderMale,
				profiletest.WithOrientation("asexual-typo", profile.PreferAll)),
			target: profiletest.New("CUPID-T", profile.GenderFemale),
			want:   GenderMismatch,
		},
		{
			name: "gay man and man",
			requester: profiletest.New("CUPID-R", profile.GenderMale,
				profiletest.WithOrientation(profile.OrientationGay, profile.PreferMale)),
			target: profiletest.New("CUPID-T", profile.GenderMale),
			want:   Eligible,
		},
		{
			name: "lesbian and man",
			requester: profiletest.New("CUPID-R", profile.GenderFemale,
				profiletest.WithOrientation(profile.OrientationLesbian, profile.PreferFemale)),
			target: profiletest.New("CUPID-T", profile.GenderMale),
			want:   GenderMismatch,
		},
		{
			name: "bisexual gated on preference",
			requester: profiletest.New("CUPID-R", profile.GenderFemale,
				profiletest.WithOrientation(profile.OrientationBisexual, profile.PreferFemale)),
			target: profiletest.New("CUPID-T", profile.GenderMale),
			want:   GenderMismatch,
		},
		{
			name: "pansexual matching preference",
			requester: profiletest.New("CUPID-R", profile.GenderMale,
				profiletest.WithOrientation(profile.OrientationPansexual, profile.PreferMale)),
			target: profiletest.New("CUPID-T", profile.GenderMale),
			want:   Eligible,
		},
		{
			name: "unknown orientation",
			requester: profiletest.New("CUPID-R", profile.GenderMale,
				profiletest.WithOrientation("asexual", profile.PreferFemale)),
			target: profiletest.New("CUPID-T", profile.GenderFemale),
			want:   GenderMismatch,
		},
		{
			name: "unknown preference",
			requester: profiletest.New("CUPID-R", profile.GenderMale,
				profiletest.WithOrientation(profile.OrientationStraight, "robots")),
			target: profiletest.New("CUPID-T", profile.GenderFemale),
			want:   GenderMismatch,
		},
		{
			name:      "unknown target gender",
			requester: bisexualAll,
			target:    profiletest.New("CUPID-T", profile.GenderFemale, withGender("unicorn")),
			want:      GenderMismatch,
		},
		{
			name:      "missing requester preferences",
			requester: profiletest.New("CUPID-R", profile.GenderMale, profiletest.Without(profile.SectionPreferences)),
			target:    profiletest.New("CUPID-T", profile.GenderFemale),
			want:      GenderMismatch,
		},
		{
			name:      "age below window",
			requester: profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAgeWindow(25, 30)),
			target:    profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAge(24)),
			want:      AgeMismatch,
		},
		{
			name:      "age at lower bound",
			requester: profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAgeWindow(25, 30)),
			target:    profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAge(25)),
			want:      Eligible,
		},
		{
			name:      "age at upper bound",
			requester: profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAgeWindow(25, 30)),
			target:    profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAge(30)),
			want:      Eligible,
		},
		{
			name:      "age above window",
			requester: profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAgeWindow(25, 30)),
			target:    profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAge(31)),
			want:      AgeMismatch,
		},
		{
			name: "half open window is not enforced",
			requester: profiletest.New("CUPID-R", profile.GenderMale, func(p *profile.Profile) {
				minAge := 40
				p.Preferences.MinAge = &minAge
			}),
			target: profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAge(20)),
			want:   Eligible,
		},
		{
			name:      "gender checked before age",
			requester: profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAgeWindow(25, 30)),
			target:    profiletest.New("CUPID-T", profile.GenderMale, profiletest.WithAge(40)),
			want:      GenderMismatch,
		},
		{
			name:      "only requester window counts",
			requester: profiletest.New("CUPID-R", profile.GenderMale, profiletest.WithAge(50)),
			target:    profiletest.New("CUPID-T", profile.GenderFemale, profiletest.WithAgeWindow(25, 30)),
			want:      Eligible,
		},
		{
			name:      "nil target",
			requester: straightMan,
			want:      GenderMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CheckEligibility(tt.requester, tt.target); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestVerdictErr(t *testing.T) {
	tests := []struct {
		verdict Verdict
		kind    Kind
	}{
		{verdict: SelfMatch, kind: KindSelfMatch},
		{verdict: GenderMismatch, kind: KindGenderMismatch},
		{verdict: AgeMismatch, kind: KindAgeMismatch},
	}

	for _, tt := range tests {
		if got := KindOf(tt.verdict.Err()); got != tt.kind {
			t.Fatalf("%s: expected %s, got %s", tt.verdict, tt.kind, got)
		}
	}

	if err := Eligible.Err(); err != nil {
		t.Fatalf("expected nil error for eligible, got %v", err)
	}
}
