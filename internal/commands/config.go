package commands

import (
	"github.com/spf13/cobra"

	"github.com/barbearia/apiclient/config"
)

// NewConfigCommand prints the effective configuration with secrets masked.
func NewConfigCommand(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cfg.All())
		},
	}

	cmd.AddCommand(show)
	return cmd
}
