package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/barbearia/apiclient/barbershop"
)

func NewServicesCommand(opts *GlobalOptions) *cobra.Command {
	var (
		filter   barbershop.ServiceFilter
		category string
	)

	cmd := &cobra.Command{
		Use:   "services [ID]",
		Short: "List services, or show one by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				var (
					out any
					err error
				)
				switch {
				case len(args) == 1:
					out, err = env.API.GetService(ctx, args[0])
				case category != "":
					out, err = env.API.ServicesByCategory(ctx, category)
				default:
					out, err = env.API.ListServices(ctx, filter)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.Flags().StringVar(&filter.Search, "search", "", "Search text")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&category, "category", "", "Only services of this category")
	return cmd
}

func NewProductsCommand(opts *GlobalOptions) *cobra.Command {
	var (
		filter   barbershop.ProductFilter
		featured bool
	)

	cmd := &cobra.Command{
		Use:   "products [ID]",
		Short: "List products, or show one by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("featured") {
				filter.Featured = &featured
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
				var (
					out any
					err error
				)
				if len(args) == 1 {
					out, err = env.API.GetProduct(ctx, args[0])
				} else {
					out, err = env.API.ListProducts(ctx, filter)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "Product category")
	cmd.Flags().BoolVar(&featured, "featured", false, "Only featured (or, with =false, non-featured) products")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Search text")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of products")
	return cmd
}
