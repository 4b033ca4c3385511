package compat

import "math"

// Label is the qualitative compatibility bucket shown on match cards.
type Label string

const (
	LabelGood   Label = "good"
	LabelMedium Label = "medium"
	LabelPoor   Label = "poor"
)

const (
	goodThreshold   = 0.8
	mediumThreshold = 0.6
)

// Result is a candidate's compatibility as returned by the match source.
// Score arrives either as a fraction (0..1) or as a percentage (0..100).
type Result struct {
	Score           float64         `json:"score" yaml:"score"`
	MatchingDetails map[string]bool `json:"matching_details,omitempty" yaml:"matching_details"`
}

// ClassifyScore buckets a fractional score.
func ClassifyScore(score float64) Label {
	switch {
	case score >= goodThreshold:
		return LabelGood
	case score >= mediumThreshold:
		return LabelMedium
	default:
		return LabelPoor
	}
}

// ClassifyPercent buckets a score that is only known as a whole percentage.
func ClassifyPercent(pct int) Label {
	return ClassifyScore(float64(pct) / 100)
}

// NormalizeScore converts a percentage-scale score to a fraction. Values in
// [0,1] are already fractions and are returned unchanged.
func NormalizeScore(raw float64) float64 {
	if raw > 1 {
		return raw / 100
	}
	return raw
}

// FormatPercentage rounds a score to a whole percentage. Out-of-range input
// is the caller's problem; nothing is clamped.
func FormatPercentage(score float64) int {
	return int(math.Round(NormalizeScore(score) * 100))
}

// Label classifies the result after normalizing its score.
func (r Result) Label() Label { return ClassifyScore(NormalizeScore(r.Score)) }

// Percentage is the display percentage of the result.
func (r Result) Percentage() int { return FormatPercentage(r.Score) }
