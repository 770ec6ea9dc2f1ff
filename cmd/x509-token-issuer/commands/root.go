package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/scitokens/x509-token-issuer/pkg/config"
	"github.com/scitokens/x509-token-issuer/pkg/credentials"
	"github.com/scitokens/x509-token-issuer/pkg/issuer"
	"github.com/scitokens/x509-token-issuer/pkg/logs"
)

// Note: We use a custom help template to make it more brief.
const helpTemplate = `Obtain SciTokens and macaroons with an X.509 identity.
{{if .UseLine}}
Usage: {{.UseLine}}
{{end}}{{if .HasAvailableLocalFlags}}
Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableInheritedFlags}}
Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableSubCommands}}
Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand)}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}
`

type globalOptions struct {
	ConfigFile string
	Cert       string
	Key        string
	CADir      string
	Timeout    time.Duration
	Verbose    bool

	cfg config.Config
}

// Root returns the root command of x509-token-issuer.
func Root(ctx context.Context) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:              "x509-token-issuer [OPTIONS]",
		Short:            "Obtain SciTokens and macaroons with an X.509 identity",
		TraverseChildren: true,
		SilenceUsage:     true,
		SilenceErrors:    true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(ctx)
			logs.Setup(cmd.ErrOrStderr(), opts.Verbose)

			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		Version: config.Version,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetHelpTemplate(helpTemplate)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Configuration file (default ~/.config/"+config.DirName+"/"+config.FileName+")")
	flags.StringVar(&opts.Cert, "cert", "", "Client certificate or proxy file")
	flags.StringVar(&opts.Key, "key", "", "Private key file (defaults to the certificate file)")
	flags.StringVar(&opts.CADir, "ca-dir", "", "Directory of additional CA certificates")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "Timeout of each HTTP request")
	flags.BoolVar(&opts.Verbose, "verbose", false, "Log every step and dump HTTP headers to stderr")

	cmd.AddCommand(scitokenCommand(opts))
	cmd.AddCommand(macaroonCommand(opts))
	cmd.AddCommand(discoverCommand(opts))
	cmd.AddCommand(versionCommand())

	return cmd
}

func (o *globalOptions) identity() credentials.Identity {
	if o.Cert != "" || o.Key != "" {
		key := o.Key
		if key == "" {
			key = o.Cert
		}
		return credentials.Identity{CertFile: o.Cert, KeyFile: key}
	}
	return o.cfg.Identity()
}

func (o *globalOptions) issuerOptions(cmd *cobra.Command) []issuer.Option {
	var opts []issuer.Option

	caDir := o.cfg.CADir
	if o.CADir != "" {
		caDir = o.CADir
	}
	if caDir != "" {
		opts = append(opts, issuer.WithCADir(caDir))
	}

	timeout := o.cfg.Timeout
	if o.Timeout > 0 {
		timeout = o.Timeout
	}
	if timeout > 0 {
		opts = append(opts, issuer.WithTimeout(timeout))
	}

	if o.Verbose {
		opts = append(opts, issuer.WithVerbose(cmd.ErrOrStderr()))
	}

	return opts
}
