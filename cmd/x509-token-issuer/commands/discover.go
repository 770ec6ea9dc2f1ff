package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scitokens/x509-token-issuer/pkg/issuer"
)

func discoverCommand(global *globalOptions) *cobra.Command {
	var opts struct {
		NoFallback bool
	}
	cmd := &cobra.Command{
		Use:   "discover [issuer]",
		Short: "Print the token endpoint advertised by an issuer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issuerURL := global.cfg.Issuer
			if len(args) > 0 {
				issuerURL = args[0]
			}
			if issuerURL == "" {
				return errors.New("no issuer given and none configured")
			}

			endpoint, err := issuer.ResolveTokenEndpoint(cmd.Context(), issuerURL, global.identity(), !opts.NoFallback, global.issuerOptions(cmd)...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), endpoint)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.NoFallback, "no-fallback", false, "Do not try the OpenID Connect configuration")
	return cmd
}
