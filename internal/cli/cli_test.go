package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apihttp "github.com/roomfit/roomfit/internal/api/http"
	authmw "github.com/roomfit/roomfit/internal/auth/middleware"
	"github.com/roomfit/roomfit/internal/compat"
	"github.com/roomfit/roomfit/internal/match"
	"github.com/roomfit/roomfit/internal/questionnaire"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type sink struct {
	mu   sync.Mutex
	err  error
	got  []questionnaire.AnswerSet
	next int
}

func (s *sink) SubmitAnswers(_ context.Context, a questionnaire.AnswerSet) (questionnaire.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, a)
	if s.err != nil {
		err := s.err
		s.err = nil
		return questionnaire.Receipt{}, err
	}
	s.next++
	return questionnaire.Receipt{ID: "rc-1", SubmittedAt: time.Now()}, nil
}

func loadedSession(t *testing.T, sk *sink) *questionnaire.Session {
	t.Helper()
	s := questionnaire.New(questionnaire.StaticSource(questionnaire.DefaultCatalog()), sk)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestRunQuestionnaireSubmits(t *testing.T) {
	sk := &sink{}
	s := loadedSession(t, sk)
	var out bytes.Buffer
	err := runQuestionnaire(context.Background(), s, script(
		"b",
		"n",
		"1", "n", // sleep_type
		"3", "n", // home_time
		"2", "n", // cleaning_frequency
		"1", "n", // noise_level
		"s 1",
		"2", "s 9", "s 2", "n", // smoking_status
		"x",
		"3", "n", // guest_frequency
	), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "This is the first question.")
	assert.Contains(t, text, "Please choose an answer to continue.")
	assert.Contains(t, text, "Choose an answer first, then a detailed option.")
	assert.Contains(t, text, "choose a number between 1 and 2")
	assert.Contains(t, text, "choose a number between 1 and 3")
	assert.Contains(t, text, "[5/6 83%]")
	assert.Contains(t, text, "Answers submitted (rc-1)")

	require.Len(t, sk.got, 1)
	assert.Equal(t, questionnaire.AnswerSet{
		"sleep_type":         "early_bird",
		"home_time":          "mostly_out",
		"cleaning_frequency": "weekly",
		"noise_level":        "quiet",
		"smoking_status":     "smoker_indoor",
		"guest_frequency":    "often",
	}, sk.got[0])
}

func TestRunQuestionnaireRetriesFailedSubmit(t *testing.T) {
	sk := &sink{err: errors.New("network down")}
	s := questionnaire.New(questionnaire.StaticSource(questionnaire.DefaultCatalog()[:1]), sk)
	require.NoError(t, s.Load(context.Background()))

	var out bytes.Buffer
	require.NoError(t, runQuestionnaire(context.Background(), s, script("2", "n", "n"), &out))
	assert.Contains(t, out.String(), "Could not submit answers: network down. Enter n to try again.")
	assert.Contains(t, out.String(), "Answers submitted")
	assert.Len(t, sk.got, 2)
}

func TestRunQuestionnaireQuit(t *testing.T) {
	sk := &sink{}
	var out bytes.Buffer
	require.NoError(t, runQuestionnaire(context.Background(), loadedSession(t, sk), script("1", "q"), &out))
	assert.Contains(t, out.String(), "Nothing was submitted")
	assert.Empty(t, sk.got)

	err := runQuestionnaire(context.Background(), loadedSession(t, sk), strings.NewReader(""), &out)
	assert.ErrorIs(t, err, errQuit)
}

func TestRenderQuestionMarksSelection(t *testing.T) {
	s := loadedSession(t, &sink{})
	require.NoError(t, s.Select("sleep_type", "night_owl"))
	var out bytes.Buffer
	renderQuestion(&out, s)
	assert.Contains(t, out.String(), "[1/6 17%]")
	assert.Contains(t, out.String(), "2) I'm up late most nights  *")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspectCommands(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"inspect", "score", "0.867"}, "good 87%\n"},
		{[]string{"inspect", "score", "64"}, "medium 64%\n"},
		{[]string{"inspect", "age", "41"}, "40s\n"},
		{[]string{"inspect", "gender", "F"}, "Female\n"},
		{[]string{"inspect", "gender", "x"}, "(none)\n"},
		{[]string{"inspect", "school", "kim@yonsei.ac.kr"}, "Yonsei University\n"},
		{[]string{"inspect", "station", "Seoul", "Mapo-gu", "Dohwa-dong"}, "Mapo Station · 8 min walk\n"},
		{[]string{"inspect", "tags", "7"}, "Night owl, Non-smoker\n"},
		{[]string{"inspect", "tags", "7", "--sleep", "early_bird", "--smoking", "smoker_indoor"}, "Early bird, Smoker\n"},
	}
	for _, tc := range cases {
		out, err := run(t, tc.args...)
		require.NoError(t, err, tc.args)
		assert.Equal(t, tc.want, out, tc.args)
	}

	_, err := run(t, "inspect", "age", "old")
	assert.Error(t, err)
}

func TestLoginAndMatchesAgainstGateway(t *testing.T) {
	ctx := context.Background()
	store := match.NewInMemoryStore()
	require.NoError(t, store.PutCatalog(ctx, questionnaire.DefaultCatalog()))
	require.NoError(t, store.PutMatches(ctx, match.DefaultSet, []compat.Match{
		{UserID: "12", Name: "Minji Kim", Age: 23, Email: "minji@snu.ac.kr",
			Compatibility: compat.Result{Score: 0.83, MatchingDetails: map[string]bool{compat.CategorySmoking: false}}},
	}))
	srv := httptest.NewServer(apihttp.NewRouter(apihttp.Deps{
		Auth:        authmw.NewAuthService("test-secret", time.Hour),
		Users:       authmw.NewMemoryUsers(),
		AllowSignup: true,
		BcryptCost:  bcrypt.MinCost,
		Store:       store,
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "login", "-u", "jisoo", "-p", "password-123", "--register")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	out, err = run(t, "--api", srv.URL, "--token", token, "matches")
	require.NoError(t, err)
	assert.Contains(t, out, " 83% good   Minji Kim (early 20s, Seoul National University)")
	assert.Contains(t, out, "#Early bird #Non-smoker")
	assert.Contains(t, out, "-- Smoking")

	_, err = run(t, "--api", srv.URL, "--token", "bogus", "matches")
	assert.ErrorContains(t, err, "401")
}
