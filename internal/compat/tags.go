package compat

import (
	"strconv"
	"strings"
)

// Display tags.
const (
	TagEarlyBird = "Early bird"
	TagNightOwl  = "Night owl"
	TagNonSmoker = "Non-smoker"
	TagSmoker    = "Smoker"
)

// MaxTags is how many tags a card shows.
const MaxTags = 2

// Lifestyle answer values that tags are derived from.
const (
	SleepEarlyBird = "early_bird"
	SleepNightOwl  = "night_owl"

	SmokingNonSmokerStrict   = "non_smoker_strict"
	SmokingNonSmokerFlexible = "non_smoker_flexible"
	SmokingSmokerOutdoor     = "smoker_outdoor"
	SmokingSmokerIndoor      = "smoker_indoor"
)

// LifestyleProfile is the subset of a candidate's saved answers used for tags.
type LifestyleProfile struct {
	SleepType     string `json:"sleep_type,omitempty" yaml:"sleep_type"`
	SmokingStatus string `json:"smoking_status,omitempty" yaml:"smoking_status"`
}

// TagInput is what DeriveTags needs to know about a candidate.
type TagInput struct {
	UserID  string
	Profile *LifestyleProfile
	Tags    []string
}

// Placeholder produces stand-in tags for candidates without any lifestyle
// data. The output is for display only and says nothing real about the user;
// it only has to be stable per user id.
type Placeholder interface {
	Tags(userID string) []string
}

// SeededPlaceholder derives placeholder tags arithmetically from a numeric
// user id: parity picks the sleep tag, and (seed*3)%10 < 8 picks non-smoker,
// which lands on roughly 80% of ids.
type SeededPlaceholder struct{}

func (SeededPlaceholder) Tags(userID string) []string {
	seed := placeholderSeed(userID)
	tags := make([]string, 0, MaxTags)
	if seed%2 == 0 {
		tags = append(tags, TagEarlyBird)
	} else {
		tags = append(tags, TagNightOwl)
	}
	// (seed%10)*3 cannot overflow and is congruent to seed*3 mod 10.
	if ((seed%10)*3)%10 < 8 {
		tags = append(tags, TagNonSmoker)
	} else {
		tags = append(tags, TagSmoker)
	}
	return tags
}

func placeholderSeed(userID string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
	if err != nil {
		return 1
	}
	return n
}

// DefaultPlaceholder is used by DeriveTags.
var DefaultPlaceholder Placeholder = SeededPlaceholder{}

// DeriveTags returns the tags shown for a candidate, using DefaultPlaceholder
// when nothing is known about them.
func DeriveTags(in TagInput) []string {
	return DeriveTagsWith(in, DefaultPlaceholder)
}

// DeriveTagsWith is DeriveTags with an explicit placeholder generator.
func DeriveTagsWith(in TagInput, ph Placeholder) []string {
	var tags []string
	if p := in.Profile; p != nil {
		switch p.SleepType {
		case SleepEarlyBird:
			tags = append(tags, TagEarlyBird)
		case SleepNightOwl:
			tags = append(tags, TagNightOwl)
		}
		switch p.SmokingStatus {
		case SmokingNonSmokerStrict, SmokingNonSmokerFlexible:
			tags = append(tags, TagNonSmoker)
		case SmokingSmokerOutdoor, SmokingSmokerIndoor:
			tags = append(tags, TagSmoker)
		}
	}
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 && ph != nil {
		tags = ph.Tags(in.UserID)
	}
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}
