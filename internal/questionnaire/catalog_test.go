package questionnaire

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogShape(t *testing.T) {
	qs := DefaultCatalog()
	require.Len(t, qs, 6)

	branching := 0
	for i, q := range qs {
		if b, ok := q.(Branching); ok {
			branching++
			assert.Equal(t, 4, i)
			assert.Equal(t, "smoking_status", b.ID)
			p, ok := b.PrimaryFor("non_smoker_strict")
			require.True(t, ok)
			assert.Equal(t, "non_smoker", p)
		}
	}
	assert.Equal(t, 1, branching)
}

func TestParseCatalogAcceptsListAndDocument(t *testing.T) {
	list := `
- id: pets
  question: Pets?
  options:
    - {value: "yes", label: "Yes"}
    - {value: "no", label: "No"}
`
	qs, err := ParseCatalog(strings.NewReader(list))
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.IsType(t, Simple{}, qs[0])
	assert.Equal(t, "yes", qs[0].Choices()[0].Value)

	doc := `{"questions":[{"id":"smoking_status","question":"Smoke?","options":[{"value":"n","label":"No"}],"sub_options":{"n":[{"value":"n1","label":"Never"}]}}]}`
	qs, err = ParseCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.IsType(t, Branching{}, qs[0])
}

func TestParseCatalogRejectsBadDefinitions(t *testing.T) {
	bad := []string{
		``,
		`[{"id":"","question":"x","options":[{"value":"a"}]}]`,
		`[{"id":"q","question":"x","options":[]}]`,
		`[{"id":"q","question":"x","options":[{"value":"a"},{"value":"a"}]}]`,
		`[{"id":"q","question":"x","options":[{"value":"a"}]},{"id":"q","question":"y","options":[{"value":"b"}]}]`,
		`[{"id":"q","question":"x","options":[{"value":"a"},{"value":"b"}],"sub_options":{"a":[{"value":"a1"}]}}]`,
		`[{"id":"q","question":"x","options":[{"value":"a"}],"sub_options":{"a":[{"value":"a1"}],"z":[{"value":"z1"}]}}]`,
	}
	for _, in := range bad {
		_, err := ParseCatalog(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrBadDefinition, "input %s", in)
	}

	_, err := ParseCatalog(strings.NewReader("questions: [unclosed"))
	assert.Error(t, err)
}

func TestDefinitionRoundTrip(t *testing.T) {
	defs := DefineAll(DefaultCatalog())
	raw, err := json.Marshal(defs)
	require.NoError(t, err)

	var back []Definition
	require.NoError(t, json.Unmarshal(raw, &back))
	qs, err := BuildAll(back)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), qs)
}

func TestValidate(t *testing.T) {
	qs := DefaultCatalog()
	full := AnswerSet{
		"sleep_type":         "flexible",
		"home_time":          "mostly_home",
		"cleaning_frequency": "monthly",
		"noise_level":        "lively",
		"smoking_status":     "smoker_indoor",
		"guest_frequency":    "often",
	}
	require.NoError(t, Validate(qs, full))

	partial := full.Clone()
	delete(partial, "noise_level")
	var verr *ValidationError
	require.ErrorAs(t, Validate(qs, partial), &verr)
	assert.Equal(t, "noise_level", verr.QuestionID)

	primaryOnly := full.Clone()
	primaryOnly["smoking_status"] = "smoker"
	require.ErrorAs(t, Validate(qs, primaryOnly), &verr)
	assert.Equal(t, "smoking_status", verr.QuestionID)

	wrong := full.Clone()
	wrong["sleep_type"] = "siesta"
	require.ErrorAs(t, Validate(qs, wrong), &verr)
	assert.Equal(t, "sleep_type", verr.QuestionID)
}
