package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/barbearia/apiclient/barbershop"
)

const dateLayout = "2006-01-02"

func NewAppointmentsCommand(opts *GlobalOptions) *cobra.Command {
	var (
		filter   barbershop.AppointmentFilter
		from, to string
	)

	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appts"},
		Short:   "List your appointments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if filter.From, err = parseDate("from", from); err != nil {
				return err
			}
			if filter.To, err = parseDate("to", to); err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				list, err := env.API.MyAppointments(ctx, filter)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVar(&filter.Status, "status", "", "scheduled, completed or canceled")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")

	var at string
	book := &cobra.Command{
		Use:   "book SERVICE_ID",
		Short: "Book a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("--at must be RFC 3339 (e.g. 2025-03-01T14:00:00-03:00): %w", err)
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				appt, err := env.API.CreateAppointment(ctx, args[0], when)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), appt)
			})
		},
	}
	book.Flags().StringVar(&at, "at", "", "Start time (RFC 3339)")
	_ = book.MarkFlagRequired("at")

	cancel := &cobra.Command{
		Use:   "cancel APPOINTMENT_ID",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				appt, err := env.API.CancelAppointment(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), appt)
			})
		},
	}

	var day string
	slots := &cobra.Command{
		Use:   "slots SERVICE_ID",
		Short: "Show free start times for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if day != "" {
				var err error
				if when, err = parseDate("date", day); err != nil {
					return err
				}
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				free, err := env.API.AvailableSlots(ctx, args[0], when)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), free)
			})
		},
	}
	slots.Flags().StringVar(&day, "date", "", "Day (YYYY-MM-DD), default today")

	cmd.AddCommand(book, cancel, slots)
	return cmd
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", flag, err)
	}
	return t, nil
}
