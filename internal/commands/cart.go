package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/barbearia/apiclient/barbershop"
)

// NewCartCommand groups the shopping cart operations. Without a
// subcommand it shows the cart.
func NewCartCommand(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the shopping cart",
		Args:  cobra.NoArgs,
		RunE: cartRun(opts, func(ctx context.Context, api *barbershop.API, _ []string) (*barbershop.Cart, error) {
			return api.Cart(ctx)
		}),
	}

	var addQty int
	add := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: cartRun(opts, func(ctx context.Context, api *barbershop.API, args []string) (*barbershop.Cart, error) {
			return api.AddToCart(ctx, args[0], addQty)
		}),
	}
	add.Flags().IntVarP(&addQty, "qty", "q", 1, "Quantity")

	var setQty int
	update := &cobra.Command{
		Use:   "update ITEM_ID",
		Short: "Change the quantity of a cart item",
		Args:  cobra.ExactArgs(1),
		RunE: cartRun(opts, func(ctx context.Context, api *barbershop.API, args []string) (*barbershop.Cart, error) {
			return api.UpdateCartItem(ctx, args[0], setQty)
		}),
	}
	update.Flags().IntVarP(&setQty, "qty", "q", 1, "New quantity")

	remove := &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: cartRun(opts, func(ctx context.Context, api *barbershop.API, args []string) (*barbershop.Cart, error) {
			return api.RemoveCartItem(ctx, args[0])
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: cartRun(opts, func(ctx context.Context, api *barbershop.API, _ []string) (*barbershop.Cart, error) {
			return api.ClearCart(ctx)
		}),
	}

	cmd.AddCommand(add, update, remove, clearCmd)
	return cmd
}

func cartRun(opts *GlobalOptions, fn func(ctx context.Context, api *barbershop.API, args []string) (*barbershop.Cart, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, opts, func(ctx context.Context, env *Env) error {
			cart, err := fn(ctx, env.API, args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cart)
		})
	}
}
