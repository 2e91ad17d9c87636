package state

import (
	"context"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/session"
)

// Store is the application state of one storefront client. It is created
// once by the process and handed to whatever needs it.
type Store struct {
	Auth          *AuthSlice
	Products      *ProductsSlice
	Categories    *CategoriesSlice
	Cart          *CartSlice
	Orders        *OrdersSlice
	Users         *UsersSlice
	Notifications *NotificationsSlice

	log zerolog.Logger
}

func NewStore(api Requester, tokens session.Store, log zerolog.Logger) *Store {
	s := &Store{
		Auth:          NewAuthSlice(api, tokens, log),
		Products:      NewProductsSlice(api, log),
		Categories:    NewCategoriesSlice(api, log),
		Cart:          NewCartSlice(api, log),
		Orders:        NewOrdersSlice(api, log),
		Users:         NewUsersSlice(api, log),
		Notifications: NewNotificationsSlice(api, log),
		log:           log,
	}
	s.Auth.onSignOut = s.clearSessionScoped
	return s
}

// Bootstrap restores the stored session and, when there is one, loads the
// profile behind it. A profile failure is reported but is not fatal: a 401
// has already signed the session out.
func (s *Store) Bootstrap(ctx context.Context) error {
	if err := s.Auth.Bootstrap(ctx); err != nil {
		return err
	}
	if !s.Auth.Snapshot().Authenticated {
		return nil
	}
	if _, err := s.Auth.FetchProfile(ctx); err != nil {
		s.log.Warn().Err(err).Msg("profile fetch at startup failed")
		return err
	}
	return nil
}

func (s *Store) Logout(ctx context.Context) {
	s.Auth.Logout(ctx)
}

// Checkout places the order for the current cart and then empties the cart
// on the server. The order stands even if clearing the cart fails; the cart
// slice keeps the error.
func (s *Store) Checkout(ctx context.Context, input models.PlaceOrder) (models.Order, error) {
	if len(s.Cart.Snapshot().Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order, err := s.Orders.Create(ctx, input)
	if err != nil {
		return models.Order{}, err
	}

	if err := s.Cart.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Int64("order_id", order.ID).Msg("order placed but cart not cleared")
	}
	return order, nil
}

// clearSessionScoped drops every collection that belongs to the signed-in
// user.
func (s *Store) clearSessionScoped() {
	s.Cart.Reset()
	s.Orders.Reset()
	s.Notifications.Reset()
}
