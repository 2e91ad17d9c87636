package state

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/models"
)

// CartSlice mirrors the server cart. Every mutation is keyed by the cart
// line id, never by product id: a line whose product was deleted still has
// an id.
type CartSlice struct {
	*resource[models.CartItem]
}

func NewCartSlice(api Requester, log zerolog.Logger) *CartSlice {
	return &CartSlice{
		resource: newResource(api, log, "cart", func(i models.CartItem) int64 { return i.ID }),
	}
}

func (s *CartSlice) Fetch(ctx context.Context) error {
	return s.fetchAll(ctx, "fetchCart", func(ctx context.Context) ([]models.CartItem, error) {
		var cart models.Cart
		err := s.api.Get(ctx, "/cart", &cart)
		return cart.CartItems, err
	})
}

// AddToCart posts the product and reconciles on the line id the server
// returns: an existing line is replaced (the server decides how quantities
// merge), otherwise the line is appended.
func (s *CartSlice) AddToCart(ctx context.Context, product models.Product, quantity int) (models.CartItem, error) {
	if quantity < 1 {
		return models.CartItem{}, ErrInvalidQuantity
	}
	if product.IsArchived {
		return models.CartItem{}, ErrProductArchived
	}
	if s.quantityInCart(product.ID)+quantity > product.Stock {
		return models.CartItem{}, ErrExceedsStock
	}

	var item models.CartItem
	body := models.AddCartItem{ProductID: product.ID, Quantity: quantity}
	err := s.mutate(ctx, "addToCart",
		func(ctx context.Context) error { return s.api.Post(ctx, "/cart/items", body, &item) },
		func(c *Collection[models.CartItem]) { c.Upsert(item) },
	)
	return item, err
}

func (s *CartSlice) UpdateItem(ctx context.Context, itemID int64, quantity int) (models.CartItem, error) {
	if quantity < 1 {
		return models.CartItem{}, ErrInvalidQuantity
	}
	if current, ok := s.get(itemID); ok && current.Product != nil && quantity > current.Product.Stock {
		return models.CartItem{}, ErrExceedsStock
	}

	var item models.CartItem
	err := s.mutate(ctx, "updateCartItem",
		func(ctx context.Context) error {
			return s.api.Put(ctx, fmt.Sprintf("/cart/items/%d", itemID), map[string]int{"quantity": quantity}, &item)
		},
		func(c *Collection[models.CartItem]) { c.Replace(item) },
	)
	return item, err
}

func (s *CartSlice) RemoveItem(ctx context.Context, itemID int64) error {
	return s.mutate(ctx, "removeCartItem",
		func(ctx context.Context) error { return s.api.Delete(ctx, fmt.Sprintf("/cart/items/%d", itemID)) },
		func(c *Collection[models.CartItem]) { c.Remove(itemID) },
	)
}

func (s *CartSlice) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clearCart",
		func(ctx context.Context) error { return s.api.Delete(ctx, "/cart") },
		func(c *Collection[models.CartItem]) { c.Clear() },
	)
}

// Reset empties the local mirror without touching the server.
func (s *CartSlice) Reset() {
	s.reset()
}

func (s *CartSlice) Snapshot() View[models.CartItem] {
	return s.view()
}

func (s *CartSlice) quantityInCart(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items.Values() {
		if item.Product != nil && item.Product.ID == productID {
			total += item.Quantity
		}
	}
	return total
}
