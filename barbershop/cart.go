package barbershop

import (
	"context"
	"errors"
	nethttp "net/http"
)

// ErrInvalidQuantity rejects non-positive cart quantities before any request.
var ErrInvalidQuantity = errors.New("barbershop: quantity must be positive")

func (a *API) Cart(ctx context.Context) (*Cart, error) {
	return a.cartCall(ctx, nethttp.MethodGet, "/cart", nil)
}

// AddToCart adds quantity units of a product. Zero quantity means one.
func (a *API) AddToCart(ctx context.Context, productID string, quantity int) (*Cart, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	return a.cartCall(ctx, nethttp.MethodPost, "/cart/add", map[string]any{
		"productId": productID,
		"quantity":  quantity,
	})
}

func (a *API) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return a.cartCall(ctx, nethttp.MethodPut, pathf("/cart/item/%s", itemID), map[string]any{"quantity": quantity})
}

func (a *API) RemoveCartItem(ctx context.Context, itemID string) (*Cart, error) {
	return a.cartCall(ctx, nethttp.MethodDelete, pathf("/cart/item/%s", itemID), nil)
}

func (a *API) ClearCart(ctx context.Context) (*Cart, error) {
	return a.cartCall(ctx, nethttp.MethodDelete, "/cart", nil)
}

func (a *API) cartCall(ctx context.Context, method, path string, in any) (*Cart, error) {
	var out Cart
	if err := a.call(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
