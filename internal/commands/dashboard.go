package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// NewDashboardCommand prints the admin overview. Sections that failed are
// reported on stderr and shown with zero values.
func NewDashboardCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the admin statistics overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				d, err := env.API.Dashboard(ctx)
				if err != nil {
					return err
				}
				if len(d.Degraded) > 0 {
					cmd.PrintErrf("Warning: some sections are unavailable: %s\n", strings.Join(d.Degraded, ", "))
				}
				return printJSON(cmd.OutOrStdout(), d)
			})
		},
	}
}
