// Package cmd implements the image-finder CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ytget/image-finder/internal/bootstrap"
	"github.com/ytget/image-finder/internal/config"
	"github.com/ytget/image-finder/internal/logging"
)

// Version is set during build via -ldflags "-X .../cmd.Version=X.Y.Z"
var Version = "dev"

type rootOptions struct {
	cfgFile  string
	credPath string
	endpoint string
	logLevel string
	fs       afero.Fs
	clip     clipboardWriter
	cfg      *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{
		fs:   afero.NewOsFs(),
		clip: systemClipboard{},
	})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "image-finder",
		Short: "Search Pixabay images from the terminal",
		Long: "image-finder searches Pixabay by keyword, lists the image URLs,\n" +
			"and can download a selection or copy its URLs to the clipboard.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFs(opts.fs, opts.cfgFile)
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			logging.Setup(level)
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().
		StringVar(&opts.cfgFile, "config", "", "config file (default $HOME/.ImageFinder/config.yaml)")
	root.PersistentFlags().
		StringVar(&opts.credPath, "credential", "", "API key file (default $HOME/.ImageFinder/pixabay.yaml)")
	root.PersistentFlags().
		StringVar(&opts.endpoint, "endpoint", "", "Pixabay API endpoint")
	root.PersistentFlags().
		StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(searchCmd(opts))
	root.AddCommand(keyCmd(opts))
	root.AddCommand(versionCmd())

	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) services(overrides bootstrap.Options) (*bootstrap.Services, error) {
	overrides.Fs = o.fs
	overrides.CredentialPath = o.credPath
	overrides.Endpoint = o.endpoint
	return bootstrap.New(o.cfg, overrides)
}
