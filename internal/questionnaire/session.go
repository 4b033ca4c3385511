package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is the session's position in the questionnaire lifecycle.
type State int

const (
	StateUnloaded State = iota
	StateAnswering
	StateSubmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateAnswering:
		return "answering"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrLoad              = errors.New("load questions")
	ErrSubmit            = errors.New("submit answers")
	ErrNotLoaded         = errors.New("questions not loaded")
	ErrClosed            = errors.New("session closed")
	ErrFinished          = errors.New("questionnaire already submitted")
	ErrSubmissionPending = errors.New("submission in progress")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrUnknownChoice     = errors.New("unknown choice")
	ErrNotBranching      = errors.New("current question has no sub-options")
	ErrNoPrimary         = errors.New("no primary choice selected")
	ErrAtFirstQuestion   = errors.New("already at the first question")
)

// Progress is the current position within the question list.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Percent is (Current+1)/Total*100, or 0 before questions are loaded.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current+1) / float64(p.Total) * 100
}

// Option configures a Session.
type Option func(*Session)

// WithSeed resumes from previously saved answers.
func WithSeed(answers AnswerSet) Option {
	return func(s *Session) {
		for k, v := range answers {
			s.answers[k] = v
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session owns the answers and position of one questionnaire run.
// Create it with New, call Load, and Close it when the user leaves.
type Session struct {
	source QuestionSource
	sink   SubmissionSink
	log    *zap.Logger
	loads  singleflight.Group

	mu        sync.Mutex
	questions []Question
	byID      map[string]Question
	state     State
	index     int
	answers   AnswerSet
	primary   map[string]string // transient per branching question
	receipt   Receipt
	lastErr   error
	closed    bool
}

func New(source QuestionSource, sink SubmissionSink, opts ...Option) *Session {
	s := &Session{
		source:  source,
		sink:    sink,
		log:     zap.NewNop(),
		answers: AnswerSet{},
		primary: map[string]string{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load fetches the question list. Concurrent calls share one request. On
// failure the session stays unloaded and keeps any seeded answers, so Load
// can simply be called again.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.questions != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	v, err, _ := s.loads.Do("questions", func() (interface{}, error) {
		qs, err := s.source.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if len(qs) == 0 {
			return nil, errors.New("empty question list")
		}
		return qs, nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.log.Warn("questionnaire load failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if s.questions == nil {
		s.install(v.([]Question))
	}
	return nil
}

// Retry re-attempts a failed Load.
func (s *Session) Retry(ctx context.Context) error { return s.Load(ctx) }

func (s *Session) install(qs []Question) {
	s.questions = qs
	s.byID = make(map[string]Question, len(qs))
	for _, q := range qs {
		s.byID[q.QuestionID()] = q
	}
	// Seeded answers that no longer fit the catalog are dropped; branching
	// answers get their primary choice back.
	for id, v := range s.answers {
		q, ok := s.byID[id]
		if !ok {
			delete(s.answers, id)
			continue
		}
		switch q := q.(type) {
		case Simple:
			if !hasChoice(q.Options, v) {
				delete(s.answers, id)
			}
		case Branching:
			p, found := q.PrimaryFor(v)
			if !found {
				delete(s.answers, id)
				continue
			}
			s.primary[id] = p
		}
	}
	s.state = StateAnswering
	s.index = 0
	s.lastErr = nil
	s.log.Debug("questionnaire loaded",
		zap.Int("questions", len(qs)),
		zap.Int("seeded", len(s.answers)))
}

// editable reports whether answers and position may change. Failed sessions
// stay editable at the last question so the user can retry.
func (s *Session) editable() error {
	if s.closed {
		return ErrClosed
	}
	switch s.state {
	case StateAnswering, StateFailed:
		return nil
	case StateUnloaded:
		return ErrNotLoaded
	case StateSubmitting:
		return ErrSubmissionPending
	default:
		return ErrFinished
	}
}

// Select answers a question. For simple questions picking the stored value
// again clears it. For branching questions it picks the primary choice and
// resets the secondary one; picking the same primary again clears both.
func (s *Session) Select(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	q, ok := s.byID[questionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if !hasChoice(q.Choices(), value) {
		return fmt.Errorf("%w: %s=%s", ErrUnknownChoice, questionID, value)
	}
	switch q.(type) {
	case Simple:
		if s.answers[questionID] == value {
			delete(s.answers, questionID)
		} else {
			s.answers[questionID] = value
		}
	case Branching:
		if s.primary[questionID] == value {
			delete(s.primary, questionID)
		} else {
			s.primary[questionID] = value
		}
		delete(s.answers, questionID)
	}
	s.touch()
	return nil
}

// SelectSub picks the secondary choice of the current branching question.
func (s *Session) SelectSub(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	q, ok := s.questions[s.index].(Branching)
	if !ok {
		return ErrNotBranching
	}
	p, ok := s.primary[q.ID]
	if !ok {
		return ErrNoPrimary
	}
	if !hasChoice(q.SubOptions[p], value) {
		return fmt.Errorf("%w: %s=%s", ErrUnknownChoice, q.ID, value)
	}
	s.answers[q.ID] = value
	s.touch()
	return nil
}

func (s *Session) touch() {
	if s.state == StateFailed {
		s.state = StateAnswering
	}
}

// Advance moves to the next question, or submits from the last one. A
// missing answer returns a *ValidationError and changes nothing.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return err
	}
	cur := s.questions[s.index]
	if b, ok := cur.(Branching); ok {
		if _, chosen := s.primary[b.ID]; !chosen {
			s.mu.Unlock()
			return &ValidationError{QuestionID: b.ID, Message: msgChooseAnswer}
		}
	}
	if err := checkAnswer(cur, s.answers); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.index < len(s.questions)-1 {
		s.index++
		s.state = StateAnswering
		s.log.Debug("questionnaire advanced", zap.Int("index", s.index))
		s.mu.Unlock()
		return nil
	}
	if err := Validate(s.questions, s.answers); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = StateSubmitting
	answers := s.answers.Clone()
	s.mu.Unlock()

	receipt, err := s.sink.SubmitAnswers(ctx, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// abandoned while submitting; nobody is watching this result
		return ErrClosed
	}
	if err != nil {
		s.state = StateFailed
		s.index = len(s.questions) - 1
		s.lastErr = err
		s.log.Warn("questionnaire submit failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	s.state = StateDone
	s.receipt = receipt
	s.lastErr = nil
	s.log.Info("questionnaire submitted",
		zap.String("receipt", receipt.ID),
		zap.Int("answers", len(answers)))
	return nil
}

// Retreat moves back one question. Answers are kept.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if s.index == 0 {
		return ErrAtFirstQuestion
	}
	s.index--
	s.state = StateAnswering
	return nil
}

// Close abandons the session. A submission still in flight is not
// cancelled; its result is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the last load or submission error, if the session is in a state
// caused by one.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Current returns the question being answered, or nil before Load.
func (s *Session) Current() Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questions == nil {
		return nil
	}
	return s.questions[s.index]
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{Current: s.index, Total: len(s.questions)}
}

func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the answer set.
func (s *Session) Answers() AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Primary returns the transient primary choice of a branching question.
func (s *Session) Primary(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.primary[questionID]
	return v, ok
}

// Secondary returns the chosen sub-option of a branching question.
func (s *Session) Secondary(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[questionID].(Branching); !ok {
		return "", false
	}
	if _, ok := s.primary[questionID]; !ok {
		return "", false
	}
	v, ok := s.answers[questionID]
	return v, ok
}

// Receipt is the submission acknowledgement once the session is done.
func (s *Session) Receipt() (Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receipt, s.state == StateDone
}
