package commands

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scitokens/x509-token-issuer/pkg/issuer"
)

const defaultValidity = 60

func macaroonCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "macaroon <url> [validity] [activity...]",
		Short: "Print a macaroon for a storage resource",
		Long: `Request a capability for the resource, valid for the given number of minutes
and limited to the given activities (for example DOWNLOAD or UPLOAD).

When the storage endpoint advertises an OAuth token endpoint a scoped access
token is requested from it; otherwise a macaroon is requested from the
resource itself. Validity and activities default to the configured ones.`,
		Example: "  x509-token-issuer macaroon davs://dcache.example.org:2880/data/file 60 DOWNLOAD LIST",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validity := global.cfg.Validity
			if validity == 0 {
				validity = defaultValidity
			}
			if len(args) > 1 {
				v, err := strconv.Atoi(args[1])
				if err != nil {
					return errors.Errorf("validity must be a number of minutes, got %q", args[1])
				}
				validity = v
			}

			activities := global.cfg.Activities
			if len(args) > 2 {
				activities = args[2:]
			}

			macaroon, err := issuer.RetrieveMacaroon(cmd.Context(), args[0], global.identity(), validity, activities, global.issuerOptions(cmd)...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), macaroon)
			return nil
		},
	}
}
