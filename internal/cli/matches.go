package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roomfit/roomfit/internal/compat"
)

func newMatchesCommand(opts *globalOpts) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Show your roommate matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ms, err := opts.client().Matches(cmd.Context())
			if err != nil {
				return err
			}
			cards := compat.PresentAll(ms)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cards)
			}
			renderCards(cmd.OutOrStdout(), cards)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print cards as JSON")
	return cmd
}
