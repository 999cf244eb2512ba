package profile

import (
	"math/rand/v2"
	"time"
)

var (
	firstNames = map[Gender][]string{
		GenderMale:   {"Aarav", "Arjun", "Vihaan", "Aditya", "Kabir", "Rohan", "Vivaan", "Dev", "Ishaan", "Reyansh"},
		GenderFemale: {"Aanya", "Diya", "Zara", "Ananya", "Myra", "Aadhya", "Aaradhya", "Avni", "Kiara", "Riya"},
	}
	lastNames   = []string{"Patel", "Sharma", "Kumar", "Singh", "Verma", "Gupta", "Shah", "Mehta", "Reddy", "Kapoor"}
	cities      = []string{"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai", "Pune", "Kolkata", "Ahmedabad", "Jaipur", "Lucknow"}
	occupations = []string{
		"Software Engineer", "Doctor", "Entrepreneur", "Architect", "Teacher",
		"Data Scientist", "Marketing Manager", "Financial Analyst", "Designer", "Consultant",
	}
	interestPool = []string{
		"Yoga", "Cricket", "Bollywood", "Reading", "Travel",
		"Photography", "Cooking", "Music", "Dancing", "Art",
		"Meditation", "Technology", "Fitness", "Movies", "Food",
	}
	loveLanguages  = []string{"words", "acts", "gifts", "time", "touch"}
	socialBattery  = []string{"low", "moderate", "high"}
	stressResponse = []string{"talk", "space", "activity"}
	decisionStyles = []string{"logical", "intuitive", "collaborative"}
	commStyles     = []string{"direct", "diplomatic", "expressive"}
	relTypes       = []string{"long-term", "marriage", "casual"}
	timelines      = []string{"few-months", "year", "no-rush"}
	familyPlans    = []string{"want-children", "no-children", "open"}
	dealbreakers   = []string{"Smoking", "Dishonesty", "Drinking", "Long distance", "Pets"}
)

// GenerateOptions controls dummy profile generation.
type GenerateOptions struct {
	// Gender of the generated people; "all" picks male or female at random.
	Gender GenderPreference
	MinAge int
	MaxAge int
	Now    time.Time
}

// Generate builds count complete, straight, randomly answered profiles.
func Generate(rng *rand.Rand, count int, opts GenerateOptions) []*Profile {
	if opts.MinAge <= 0 {
		opts.MinAge = 21
	}
	if opts.MaxAge < opts.MinAge {
		opts.MaxAge = opts.MinAge + 14
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	profiles := make([]*Profile, 0, count)
	for range count {
		profiles = append(profiles, generateOne(rng, opts))
	}
	return profiles
}

func generateOne(rng *rand.Rand, opts GenerateOptions) *Profile {
	gender := Gender(opts.Gender)
	if opts.Gender == PreferAll || !gender.Valid() || gender == GenderOther {
		gender = GenderMale
		if rng.IntN(2) == 1 {
			gender = GenderFemale
		}
	}
	pref := PreferFemale
	if gender == GenderFemale {
		pref = PreferMale
	}

	age := opts.MinAge + rng.IntN(opts.MaxAge-opts.MinAge+1)
	minAge := max(18, age-5)
	maxAge := age + 5

	interests := pickN(rng, interestPool, 4)

	p := &Profile{
		ID: NewID(),
		PersonalInfo: &PersonalInfo{
			FullName:            pick(rng, firstNames[gender]) + " " + pick(rng, lastNames),
			Age:                 age,
			Gender:              gender,
			Location:            pick(rng, cities),
			Occupation:          pick(rng, occupations),
			RelationshipHistory: "never-married",
			Lifestyle:           "Active and health-conscious",
		},
		Preferences: &Preferences{
			Interests:           interests,
			MinAge:              &minAge,
			MaxAge:              &maxAge,
			PreferredDistance:   "50",
			EducationPreference: "bachelors",
			SexualOrientation:   OrientationStraight,
			GenderPreference:    pref,
		},
		PsychologicalProfile: &PsychologicalProfile{
			Extroversion:       rng.Float64() * 10,
			Openness:           rng.Float64() * 10,
			Agreeableness:      rng.Float64() * 10,
			Conscientiousness:  rng.Float64() * 10,
			EmotionalStability: rng.Float64() * 10,
			CommunicationStyle: pick(rng, commStyles),
			ConflictResolution: "collaborative",
		},
		RelationshipGoals: &RelationshipGoals{
			RelationshipType:   pick(rng, relTypes),
			Timeline:           pick(rng, timelines),
			FamilyPlans:        pick(rng, familyPlans),
			RelationshipValues: "Trust, respect, and understanding",
		},
		BehavioralInsights: &BehavioralInsights{
			LoveLanguage:   pick(rng, loveLanguages),
			SocialBattery:  pick(rng, socialBattery),
			StressResponse: pick(rng, stressResponse),
			DecisionMaking: pick(rng, decisionStyles),
		},
		Dealbreakers: &Dealbreakers{
			Items:       pickN(rng, dealbreakers, 2),
			Flexibility: "moderate",
		},
	}
	p.Touch(opts.Now)
	return p
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.IntN(len(items))]
}

func pickN(rng *rand.Rand, items []string, n int) []string {
	shuffled := append([]string(nil), items...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:min(n, len(shuffled))]
}
