package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barbearia/apiclient/barbershop"
	"github.com/barbearia/apiclient/credentials"
)

// EnvPassword supplies the login password when --password is not given.
const EnvPassword = "BARBERCTL_PASSWORD"

func NewLoginCommand(opts *GlobalOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(EnvPassword)
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or %s) are required", EnvPassword)
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				session, err := env.API.Login(ctx, barbershop.LoginRequest{Email: email, Password: password})
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				name := email
				if session.User != nil && session.User.Name != "" {
					name = session.User.Name
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func NewLogoutCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				if err := env.API.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

// NewWhoAmICommand prints the authenticated user. --cached skips the API and
// reads the user kept with the session.
func NewWhoAmICommand(opts *GlobalOptions) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				var (
					user *credentials.User
					err  error
				)
				if cached {
					user, err = env.Store.User(ctx)
				} else {
					user, err = env.API.Me(ctx)
				}
				if errors.Is(err, credentials.ErrNoCredentials) || errors.Is(err, barbershop.ErrNoToken) {
					return errors.New("not logged in")
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), user)
			})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read the stored user instead of calling the API")
	return cmd
}
