package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(opts *globalOpts) *cobra.Command {
	var username, password string
	var register bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in (or register) and print an access token",
		Long: `Log in to the matching service and print an access token. Export it as
ROOMFIT_TOKEN or pass it with --token to the other commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			c := opts.client()
			call := c.Login
			if register {
				call = c.Register
			}
			tr, err := call(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tr.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&register, "register", false, "create the account first")
	return cmd
}
