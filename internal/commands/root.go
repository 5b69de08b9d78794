package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles barberctl with every subcommand attached.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	root := &cobra.Command{
		Use:   "barberctl",
		Short: "Command-line client for the barbershop API",
		Long: `barberctl talks to the barbershop REST API. Rate-limited calls are retried
with exponential backoff and a notice is printed while waiting; an expired
session clears the stored token and asks for a new login.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default barberctl.yaml when present)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "Human-readable log output")

	root.AddCommand(
		NewLoginCommand(opts),
		NewLogoutCommand(opts),
		NewWhoAmICommand(opts),
		NewServicesCommand(opts),
		NewProductsCommand(opts),
		NewCartCommand(opts),
		NewAppointmentsCommand(opts),
		NewDashboardCommand(opts),
		NewConfigCommand(opts),
		NewVersionCommand(version),
	)
	return root
}

// withEnv runs fn with a fully wired Env and releases it afterwards.
func withEnv(cmd *cobra.Command, opts *GlobalOptions, fn func(ctx context.Context, env *Env) error) error {
	if opts.Stderr == nil {
		opts.Stderr = cmd.ErrOrStderr()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			env.Log.Warn().Err(cerr).Msg("Failed to close credential store")
		}
	}()
	return fn(ctx, env)
}
