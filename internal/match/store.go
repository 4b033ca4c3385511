package match

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roomfit/roomfit/internal/compat"
	"github.com/roomfit/roomfit/internal/questionnaire"
)

var ErrNotFound = errors.New("not found")

// DefaultSet is the fixture key whose matches are served to users that have
// no set of their own.
const DefaultSet = "*"

// Store persists questionnaire answers, per-user match sets and the question
// catalog.
type Store interface {
	SaveAnswers(ctx context.Context, userID string, answers questionnaire.AnswerSet) (questionnaire.Receipt, error)
	GetAnswers(ctx context.Context, userID string) (questionnaire.AnswerSet, error)

	PutMatches(ctx context.Context, userID string, ms []compat.Match) error
	ListMatches(ctx context.Context, userID string) ([]compat.Match, error)

	PutCatalog(ctx context.Context, qs []questionnaire.Question) error
	GetCatalog(ctx context.Context) ([]questionnaire.Question, error)
}

// MatchesFor returns the user's own match set, falling back to the default
// set without the user themselves in it.
func MatchesFor(ctx context.Context, s Store, userID string) ([]compat.Match, error) {
	ms, err := s.ListMatches(ctx, userID)
	if err != nil || len(ms) > 0 {
		return ms, err
	}
	all, err := s.ListMatches(ctx, DefaultSet)
	if err != nil {
		return nil, err
	}
	out := make([]compat.Match, 0, len(all))
	for _, m := range all {
		if m.UserID != userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type answerRow struct {
	receipt questionnaire.Receipt
	answers questionnaire.AnswerSet
}

type memoryStore struct {
	mu      sync.RWMutex
	answers map[string]answerRow
	matches map[string][]compat.Match
	catalog []questionnaire.Question
}

func NewInMemoryStore() Store {
	return &memoryStore{
		answers: map[string]answerRow{},
		matches: map[string][]compat.Match{},
	}
}

func (m *memoryStore) SaveAnswers(_ context.Context, userID string, answers questionnaire.AnswerSet) (questionnaire.Receipt, error) {
	rc := newReceipt()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[userID] = answerRow{receipt: rc, answers: answers.Clone()}
	return rc, nil
}

func (m *memoryStore) GetAnswers(_ context.Context, userID string) (questionnaire.AnswerSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.answers[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return row.answers.Clone(), nil
}

func (m *memoryStore) PutMatches(_ context.Context, userID string, ms []compat.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[userID] = append([]compat.Match(nil), ms...)
	return nil
}

func (m *memoryStore) ListMatches(_ context.Context, userID string) ([]compat.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]compat.Match(nil), m.matches[userID]...), nil
}

func (m *memoryStore) PutCatalog(_ context.Context, qs []questionnaire.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = append([]questionnaire.Question(nil), qs...)
	return nil
}

func (m *memoryStore) GetCatalog(context.Context) ([]questionnaire.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.catalog) == 0 {
		return nil, ErrNotFound
	}
	return append([]questionnaire.Question(nil), m.catalog...), nil
}

func newReceipt() questionnaire.Receipt {
	return questionnaire.Receipt{ID: uuid.NewString(), SubmittedAt: time.Now().UTC().Truncate(time.Second)}
}
