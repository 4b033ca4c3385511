package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomfit/roomfit/internal/compat"
)

// newInspectCommand exposes the card derivations one at a time.
func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how a single match card field is derived",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "score <score>",
			Short: "Label and percentage for a score (0..1 or 0..100)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("score: %w", err)
				}
				r := compat.Result{Score: v}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d%%\n", r.Label(), r.Percentage())
				return nil
			},
		},
		&cobra.Command{
			Use:   "age <years>",
			Short: "Age bracket",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("age: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), compat.AgeBracket(n))
				return nil
			},
		},
		printer("gender <code>", "Gender display label", compat.GenderLabel),
		printer("school <email>", "School name from an email address", compat.SchoolNameFromEmail),
		printer("station <address>", "Nearest station hint for an address", compat.NearestStationHint),
		newInspectTagsCommand(),
	)
	return cmd
}

func printer(use, short string, fn func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := fn(strings.Join(args, " "))
			if out == "" {
				out = "(none)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newInspectTagsCommand() *cobra.Command {
	var sleep, smoking string
	var tags []string
	cmd := &cobra.Command{
		Use:   "tags <user-id>",
		Short: "Tags shown for a candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := compat.TagInput{UserID: args[0], Tags: tags}
			if sleep != "" || smoking != "" {
				in.Profile = &compat.LifestyleProfile{SleepType: sleep, SmokingStatus: smoking}
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(compat.DeriveTags(in), ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&sleep, "sleep", "", "sleep_type answer")
	cmd.Flags().StringVar(&smoking, "smoking", "", "smoking_status answer")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "explicit tag (repeatable)")
	return cmd
}
