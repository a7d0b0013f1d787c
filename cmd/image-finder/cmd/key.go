package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/image-finder/internal/bootstrap"
	"github.com/ytget/image-finder/internal/credential"
)

func keyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Show or change the stored Pixabay API key",
	}
	cmd.AddCommand(keyShowCmd(opts))
	cmd.AddCommand(keySetCmd(opts))
	return cmd
}

func keyShowCmd(opts *rootOptions) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the API key in use and where it is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := opts.services(bootstrap.Options{})
			if err != nil {
				return err
			}
			defer services.Close()

			key := services.Session.Credential()
			shown := "(not set)"
			if key != "" {
				shown = key
				if !reveal {
					shown = credential.Mask(key)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key:  %s\n", shown)
			fmt.Fprintf(out, "file: %s\n", services.Store.Path())
			if stored, err := services.Store.Load(); err == nil && stored == "" && key != "" {
				fmt.Fprintln(out, "from: configuration (api.key or IMAGEFINDER_API_KEY), used until a key is saved")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the full key")

	return cmd
}

func keySetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key>",
		Short:   "Save a new API key",
		Example: `  image-finder key set 12345678-abcdef0123456789abcdef012`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := opts.services(bootstrap.Options{})
			if err != nil {
				return err
			}
			defer services.Close()

			if err := services.Session.UpdateCredential(args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", services.Store.Path())
			return err
		},
	}
}
