package match

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roomfit/roomfit/internal/compat"
)

// Fixtures maps a user id (or DefaultSet) to that user's match set.
type Fixtures map[string][]compat.Match

// LoadFixtures reads YAML of the form
//
//	matches:
//	  "*":
//	    - user_id: "12"
//	      name: ...
func LoadFixtures(r io.Reader) (Fixtures, error) {
	var doc struct {
		Matches Fixtures `yaml:"matches"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("match fixtures: %w", err)
	}
	for owner, ms := range doc.Matches {
		for i, m := range ms {
			if m.UserID == "" {
				return nil, fmt.Errorf("match fixtures: %s[%d]: missing user_id", owner, i)
			}
		}
	}
	if doc.Matches == nil {
		doc.Matches = Fixtures{}
	}
	return doc.Matches, nil
}

// LoadFixturesFile is LoadFixtures on a file path.
func LoadFixturesFile(path string) (Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFixtures(f)
}

// Seed writes every fixture set into s, in owner order.
func (fx Fixtures) Seed(ctx context.Context, s Store) error {
	owners := make([]string, 0, len(fx))
	for o := range fx {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	for _, o := range owners {
		if err := s.PutMatches(ctx, o, fx[o]); err != nil {
			return fmt.Errorf("seed %s: %w", o, err)
		}
	}
	return nil
}
