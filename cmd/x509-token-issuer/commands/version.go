package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scitokens/x509-token-issuer/pkg/config"
)

func versionCommand() *cobra.Command {
	var opts struct {
		Commit bool
	}
	cmd := &cobra.Command{
		Short: "Show the version information",
		Use:   "version",
		Args:  cobra.ExactArgs(0),
		// The configuration is not needed to print the version.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			if opts.Commit {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", config.Version, config.Commit())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Version)
		},
	}
	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "Also print the git commit")
	return cmd
}
