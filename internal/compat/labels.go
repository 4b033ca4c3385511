package compat

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/roomfit/roomfit/internal/lookup"
)

type ageRange struct {
	min, max int
	label    string
}

var ageRanges = []ageRange{
	{19, 23, "early 20s"},
	{24, 27, "mid 20s"},
	{28, 30, "late 20s"},
	{31, 35, "early 30s"},
	{36, 39, "late 30s"},
}

// AgeBracket turns an age into a coarse label. Ages outside the named
// brackets fall back to their decade, e.g. 41 -> "40s" and 17 -> "10s".
func AgeBracket(age int) string {
	for _, r := range ageRanges {
		if age >= r.min && age <= r.max {
			return r.label
		}
	}
	return fmt.Sprintf("%ds", floorDiv(age, 10)*10)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

var genderLabels = map[string]string{
	"male":       "Male",
	"m":          "Male",
	"female":     "Female",
	"f":          "Female",
	"other":      "Other",
	"nonbinary":  "Other",
	"non_binary": "Other",
}

// GenderLabel maps a gender code to its display label, ignoring case.
// Unknown codes yield "".
func GenderLabel(code string) string {
	code = strings.TrimSpace(code)
	if label, ok := genderLabels[code]; ok {
		return label
	}
	// Casers carry state, so each call folds with its own.
	return genderLabels[cases.Fold().String(code)]
}

const universitySuffix = " University"

var domainNoise = []string{".ac.kr", ".edu", "university", "univ", "."}

// SchoolNameFromEmail resolves a school from the domain of an email address.
// Unknown domains are turned into a best-effort name; "" means nothing usable.
func SchoolNameFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	if domain == "" {
		return ""
	}
	if name, ok := lookup.SchoolByDomain(domain); ok {
		return name
	}
	rest := domain
	for _, s := range domainNoise {
		rest = strings.ReplaceAll(rest, s, "")
	}
	if rest == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(rest)
	return string(unicode.ToUpper(r)) + rest[size:] + universitySuffix
}

// NearestStationHint finds the station for the first district mentioned in
// the address.
func NearestStationHint(address string) string {
	if strings.TrimSpace(address) == "" {
		return lookup.DefaultStationLabel
	}
	for _, st := range lookup.Stations() {
		if strings.Contains(address, st.District) {
			return fmt.Sprintf("%s · %d min walk", st.Name, st.WalkMinutes)
		}
	}
	return lookup.DefaultStationLabel
}
