package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scitokens/x509-token-issuer/pkg/issuer"
)

func scitokenCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scitoken [issuer]",
		Short: "Print a SciToken issued to the X.509 identity",
		Long: `Discover the token endpoint of the issuer and request a token with the client
credentials grant. The issuer defaults to the configured one.`,
		Example: "  x509-token-issuer scitoken https://demo.scitokens.org",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issuerURL := global.cfg.Issuer
			if len(args) > 0 {
				issuerURL = args[0]
			}
			if issuerURL == "" {
				return errors.New("no issuer given and none configured")
			}

			token, err := issuer.RetrieveToken(cmd.Context(), issuerURL, global.identity(), global.issuerOptions(cmd)...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
