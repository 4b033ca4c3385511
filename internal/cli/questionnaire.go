package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roomfit/roomfit/internal/questionnaire"
)

func newQuestionnaireCommand(opts *globalOpts) *cobra.Command {
	var resume bool
	cmd := &cobra.Command{
		Use:     "questionnaire",
		Aliases: []string{"q"},
		Short:   "Answer the lifestyle questionnaire",
		Long: `Answer the lifestyle questionnaire one question at a time.

  <n>     choose option n
  s <n>   choose detailed option n (smoking question)
  n       next question (submits on the last one)
  b       previous question
  q       quit without submitting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := opts.client()
			sopts := []questionnaire.Option{questionnaire.WithLogger(opts.logger())}
			if resume {
				seed, err := c.LoadAnswers(ctx)
				if err != nil {
					return fmt.Errorf("load saved answers: %w", err)
				}
				sopts = append(sopts, questionnaire.WithSeed(seed))
			}
			s := questionnaire.New(c, c, sopts...)
			defer s.Close()
			if err := s.Load(ctx); err != nil {
				return err
			}
			return runQuestionnaire(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&resume, "resume", false, "start from your previously submitted answers")
	return cmd
}

var errQuit = errors.New("questionnaire abandoned")

// runQuestionnaire drives a loaded session from line input until it is
// submitted, the user quits, or input ends.
func runQuestionnaire(ctx context.Context, s *questionnaire.Session, in io.Reader, out io.Writer) error {
	warn := color.New(color.FgYellow)
	sc := bufio.NewScanner(in)
	for {
		renderQuestion(out, s)
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			if err := sc.Err(); err != nil {
				return err
			}
			return errQuit
		}
		done, err := handleInput(ctx, s, strings.TrimSpace(sc.Text()))
		if errors.Is(err, errQuit) {
			fmt.Fprintln(out, "Bye. Nothing was submitted.")
			return nil
		}
		if err != nil {
			warn.Fprintf(out, "%s\n", userMessage(err))
			continue
		}
		if done {
			rc, _ := s.Receipt()
			color.New(color.FgGreen, color.Bold).Fprintf(out, "Answers submitted (%s). Run `roomfit matches` to see your matches.\n", rc.ID)
			return nil
		}
	}
}

func handleInput(ctx context.Context, s *questionnaire.Session, line string) (bool, error) {
	q := s.Current()
	fields := strings.Fields(line)
	switch {
	case len(fields) == 0:
		return false, nil
	case fields[0] == "q":
		return false, errQuit
	case fields[0] == "b":
		return false, s.Retreat()
	case fields[0] == "n":
		if err := s.Advance(ctx); err != nil {
			return false, err
		}
		return s.State() == questionnaire.StateDone, nil
	case fields[0] == "s" && len(fields) == 2:
		b, ok := q.(questionnaire.Branching)
		if !ok {
			return false, questionnaire.ErrNotBranching
		}
		p, ok := s.Primary(b.ID)
		if !ok {
			return false, questionnaire.ErrNoPrimary
		}
		v, err := pick(b.SubOptions[p], fields[1])
		if err != nil {
			return false, err
		}
		return false, s.SelectSub(v)
	case len(fields) == 1:
		v, err := pick(q.Choices(), fields[0])
		if err != nil {
			return false, err
		}
		return false, s.Select(q.QuestionID(), v)
	}
	return false, fmt.Errorf("unrecognised input %q", line)
}

func pick(choices []questionnaire.Choice, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(choices) {
		return "", fmt.Errorf("choose a number between 1 and %d", len(choices))
	}
	return choices[n-1].Value, nil
}

func userMessage(err error) string {
	var verr *questionnaire.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, questionnaire.ErrAtFirstQuestion):
		return "This is the first question."
	case errors.Is(err, questionnaire.ErrNoPrimary):
		return "Choose an answer first, then a detailed option."
	case errors.Is(err, questionnaire.ErrNotBranching):
		return "This question has no detailed options."
	case errors.Is(err, questionnaire.ErrSubmit):
		return fmt.Sprintf("Could not %v. Enter n to try again.", err)
	}
	return err.Error()
}

func renderQuestion(w io.Writer, s *questionnaire.Session) {
	head := color.New(color.FgCyan, color.Bold)
	sel := color.New(color.FgGreen)
	q := s.Current()
	p := s.Progress()
	answers := s.Answers()

	head.Fprintf(w, "\n[%d/%d %.0f%%] %s\n", p.Current+1, p.Total, p.Percent(), q.Prompt())
	marked := answers[q.QuestionID()]
	b, branching := q.(questionnaire.Branching)
	if branching {
		marked, _ = s.Primary(b.ID)
	}
	for i, c := range q.Choices() {
		line := fmt.Sprintf("  %d) %s", i+1, c.Label)
		if c.Value == marked {
			sel.Fprintf(w, "%s  *\n", line)
			continue
		}
		fmt.Fprintln(w, line)
	}
	if !branching || marked == "" {
		return
	}
	sub, _ := s.Secondary(b.ID)
	for i, c := range b.SubOptions[marked] {
		line := fmt.Sprintf("      s %d) %s", i+1, c.Label)
		if c.Value == sub {
			sel.Fprintf(w, "%s  *\n", line)
			continue
		}
		fmt.Fprintln(w, line)
	}
}
