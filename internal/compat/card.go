package compat

// Compatibility categories reported in Result.MatchingDetails.
const (
	CategorySleep    = "sleep_type_match"
	CategoryHomeTime = "home_time_compatible"
	CategoryCleaning = "cleaning_frequency_compatible"
	CategorySmoking  = "smoking_compatible"
)

var categoryOrder = []struct {
	key, title string
}{
	{CategorySleep, "Sleep schedule"},
	{CategoryHomeTime, "Time at home"},
	{CategoryCleaning, "Cleaning habits"},
	{CategorySmoking, "Smoking"},
}

// CategoryMatch is one row of the per-category breakdown.
type CategoryMatch struct {
	Category   string `json:"category"`
	Title      string `json:"title"`
	Compatible bool   `json:"compatible"`
}

// Breakdown lists the known categories present in details, in display order.
// Unknown keys are ignored.
func Breakdown(details map[string]bool) []CategoryMatch {
	out := make([]CategoryMatch, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		ok, present := details[c.key]
		if !present {
			continue
		}
		out = append(out, CategoryMatch{Category: c.key, Title: c.title, Compatible: ok})
	}
	return out
}

// Match is a candidate as delivered by the match source.
type Match struct {
	UserID        string            `json:"user_id" yaml:"user_id"`
	Name          string            `json:"name" yaml:"name"`
	Age           int               `json:"age,omitempty" yaml:"age"`
	Gender        string            `json:"gender,omitempty" yaml:"gender"`
	Email         string            `json:"email,omitempty" yaml:"email"`
	Address       string            `json:"address,omitempty" yaml:"address"`
	Profile       *LifestyleProfile `json:"profile,omitempty" yaml:"profile"`
	Tags          []string          `json:"tags,omitempty" yaml:"tags"`
	Compatibility Result            `json:"compatibility" yaml:"compatibility"`
}

// Card is the rendered view of a match shared by every screen.
type Card struct {
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Label      Label           `json:"label"`
	Percentage int             `json:"percentage"`
	Tags       []string        `json:"tags"`
	AgeBracket string          `json:"age_bracket,omitempty"`
	Gender     string          `json:"gender,omitempty"`
	School     string          `json:"school,omitempty"`
	Station    string          `json:"station,omitempty"`
	Breakdown  []CategoryMatch `json:"breakdown"`
}

// Present derives a Card from a Match.
func Present(m Match) Card {
	c := Card{
		UserID:     m.UserID,
		Name:       m.Name,
		Label:      m.Compatibility.Label(),
		Percentage: m.Compatibility.Percentage(),
		Tags:       DeriveTags(TagInput{UserID: m.UserID, Profile: m.Profile, Tags: m.Tags}),
		Gender:     GenderLabel(m.Gender),
		School:     SchoolNameFromEmail(m.Email),
		Breakdown:  Breakdown(m.Compatibility.MatchingDetails),
	}
	if m.Age > 0 {
		c.AgeBracket = AgeBracket(m.Age)
	}
	if m.Address != "" {
		c.Station = NearestStationHint(m.Address)
	}
	return c
}

// PresentAll presents matches in the order received.
func PresentAll(ms []Match) []Card {
	out := make([]Card, 0, len(ms))
	for _, m := range ms {
		out = append(out, Present(m))
	}
	return out
}
