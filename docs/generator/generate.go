package main

import (
	"context"
	"log"
	"os"

	clidocstool "github.com/docker/cli-docs-tool"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/scitokens/x509-token-issuer/cmd/x509-token-issuer/commands"
)

const defaultSourcePath = "docs/reference/"

type options struct {
	source  string
	formats []string
}

func gen(opts *options) error {
	log.SetFlags(0)

	cmd := commands.Root(context.Background())
	cmd.DisableAutoGenTag = true

	c, err := clidocstool.New(clidocstool.Options{
		Root:      cmd,
		SourceDir: opts.source,
	})
	if err != nil {
		return errors.Wrap(err, "creating docs tool")
	}

	for _, format := range opts.formats {
		switch format {
		case "md":
			if err = c.GenMarkdownTree(cmd); err != nil {
				return errors.Wrap(err, "generating markdown")
			}
		case "yaml":
			if err = c.GenYamlTree(cmd); err != nil {
				return errors.Wrap(err, "generating yaml")
			}
		default:
			return errors.Errorf("unknown format %q", format)
		}
	}

	return nil
}

func run() error {
	opts := &options{}
	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	flags.StringVar(&opts.source, "source", defaultSourcePath, "Docs source folder")
	flags.StringSliceVar(&opts.formats, "formats", []string{}, "Format (md, yaml)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if len(opts.formats) == 0 {
		return errors.New("Docs format required")
	}
	return gen(opts)
}

func main() {
	if err := run(); err != nil {
		log.Printf("ERROR: %+v", err)
		os.Exit(1)
	}
}
