package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roomfit/roomfit/internal/apiclient"
	"github.com/roomfit/roomfit/internal/logging"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type globalOpts struct {
	api     string
	token   string
	timeout time.Duration
	verbose bool
}

func (o *globalOpts) client() *apiclient.Client {
	return apiclient.New(apiclient.Config{BaseURL: o.api, Token: o.token, Timeout: o.timeout})
}

func (o *globalOpts) logger() *zap.Logger { return logging.NewConsole(o.verbose) }

// NewRootCommand creates the roomfit command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOpts{}
	cmd := &cobra.Command{
		Use:   "roomfit",
		Short: "Roommate matching from the terminal",
		Long: `roomfit walks you through the lifestyle questionnaire, submits your
answers to the matching service and shows your roommate matches.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.api, "api", envOr("ROOMFIT_API", "http://localhost:8080"), "matching service base URL (env ROOMFIT_API)")
	pf.StringVar(&opts.token, "token", os.Getenv("ROOMFIT_TOKEN"), "access token (env ROOMFIT_TOKEN)")
	pf.DurationVar(&opts.timeout, "timeout", 15*time.Second, "per-request timeout")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newQuestionnaireCommand(opts))
	cmd.AddCommand(newMatchesCommand(opts))
	cmd.AddCommand(newInspectCommand())
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
