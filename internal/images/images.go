// Package images maps a profile's gender to a display picture.
package images

import (
	"github.com/spigell/cupid-matcher/internal/profile"
)

// Resolver picks a display image for a gender.
type Resolver interface {
	ImageFor(gender profile.Gender) string
}

// Catalog holds image URLs per gender. Unknown genders fall back to Other.
type Catalog struct {
	Male   []string `mapstructure:"male"`
	Female []string `mapstructure:"female"`
	Other  []string `mapstructure:"other"`
}

// DefaultCatalog returns the built-in stock photo set.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Female: []string{
			"https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=400",
			"https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=400",
			"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400",
		},
		Male: []string{
			"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400",
			"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400",
			"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400",
		},
		Other: []string{
			"https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=400",
			"https://images.unsplash.com/photo-1544725176-7c40e5a71c5e?w=400",
		},
	}
}

// ImageFor returns the first image configured for the gender, so the same
// gender always resolves to the same URL.
func (c *Catalog) ImageFor(gender profile.Gender) string {
	var set []string
	switch gender {
	case profile.GenderFemale:
		set = c.Female
	case profile.GenderMale:
		set = c.Male
	}
	if len(set) == 0 {
		set = c.Other
	}
	if len(set) == 0 {
		return ""
	}
	return set[0]
}

// Merge fills empty gender sets of c from fallback.
func (c *Catalog) Merge(fallback *Catalog) *Catalog {
	if c == nil {
		return fallback
	}
	merged := *c
	if len(merged.Male) == 0 {
		merged.Male = fallback.Male
	}
	if len(merged.Female) == 0 {
		merged.Female = fallback.Female
	}
	if len(merged.Other) == 0 {
		merged.Other = fallback.Other
	}
	return &merged
}
