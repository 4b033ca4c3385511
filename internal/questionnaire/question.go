package questionnaire

import (
	"errors"
	"fmt"
	"strings"
)

// Choice is one selectable answer.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Question is either a Simple or a Branching question.
type Question interface {
	QuestionID() string
	Prompt() string
	Choices() []Choice
	definition() Definition
}

// Simple questions take exactly one answer from Options.
type Simple struct {
	ID      string
	Text    string
	Options []Choice
}

func (q Simple) QuestionID() string { return q.ID }
func (q Simple) Prompt() string     { return q.Text }
func (q Simple) Choices() []Choice  { return q.Options }

func (q Simple) definition() Definition {
	return Definition{ID: q.ID, Question: q.Text, Options: q.Options}
}

// Branching questions need a primary choice from Options and then a
// secondary choice from SubOptions[primary]. Only the secondary value is
// recorded as the answer.
type Branching struct {
	ID         string
	Text       string
	Options    []Choice
	SubOptions map[string][]Choice
}

func (q Branching) QuestionID() string { return q.ID }
func (q Branching) Prompt() string     { return q.Text }
func (q Branching) Choices() []Choice  { return q.Options }

func (q Branching) definition() Definition {
	return Definition{ID: q.ID, Question: q.Text, Options: q.Options, SubOptions: q.SubOptions}
}

// PrimaryFor finds the primary choice whose sub-options contain value.
func (q Branching) PrimaryFor(value string) (string, bool) {
	for _, o := range q.Options {
		if hasChoice(q.SubOptions[o.Value], value) {
			return o.Value, true
		}
	}
	return "", false
}

// Definition is the wire form of a question.
type Definition struct {
	ID         string              `json:"id" yaml:"id"`
	Question   string              `json:"question" yaml:"question"`
	Options    []Choice            `json:"options" yaml:"options"`
	SubOptions map[string][]Choice `json:"sub_options,omitempty" yaml:"sub_options,omitempty"`
}

var ErrBadDefinition = errors.New("invalid question definition")

// Build turns a wire definition into a Simple or Branching question.
func (d Definition) Build() (Question, error) {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrBadDefinition)
	}
	if len(d.Options) == 0 {
		return nil, fmt.Errorf("%w: %s has no options", ErrBadDefinition, id)
	}
	seen := map[string]bool{}
	for _, o := range d.Options {
		if o.Value == "" || seen[o.Value] {
			return nil, fmt.Errorf("%w: %s has an empty or duplicate option %q", ErrBadDefinition, id, o.Value)
		}
		seen[o.Value] = true
	}
	if len(d.SubOptions) == 0 {
		return Simple{ID: id, Text: d.Question, Options: d.Options}, nil
	}
	for primary := range d.SubOptions {
		if !seen[primary] {
			return nil, fmt.Errorf("%w: %s has sub-options for unknown option %q", ErrBadDefinition, id, primary)
		}
	}
	for _, o := range d.Options {
		if len(d.SubOptions[o.Value]) == 0 {
			return nil, fmt.Errorf("%w: %s option %q has no sub-options", ErrBadDefinition, id, o.Value)
		}
	}
	return Branching{ID: id, Text: d.Question, Options: d.Options, SubOptions: d.SubOptions}, nil
}

// Define returns the wire form of q.
func Define(q Question) Definition { return q.definition() }

// DefineAll returns the wire form of qs.
func DefineAll(qs []Question) []Definition {
	out := make([]Definition, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.definition())
	}
	return out
}

// BuildAll builds an ordered question list, rejecting duplicate ids.
func BuildAll(defs []Definition) ([]Question, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: empty question list", ErrBadDefinition)
	}
	out := make([]Question, 0, len(defs))
	ids := map[string]bool{}
	for _, d := range defs {
		q, err := d.Build()
		if err != nil {
			return nil, err
		}
		if ids[q.QuestionID()] {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrBadDefinition, q.QuestionID())
		}
		ids[q.QuestionID()] = true
		out = append(out, q)
	}
	return out, nil
}

func hasChoice(cs []Choice, value string) bool {
	for _, c := range cs {
		if c.Value == value {
			return true
		}
	}
	return false
}
