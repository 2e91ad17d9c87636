package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/models"
)

type OrdersSlice struct {
	*resource[models.Order]
}

func NewOrdersSlice(api Requester, log zerolog.Logger) *OrdersSlice {
	return &OrdersSlice{
		resource: newResource(api, log, "orders", func(o models.Order) int64 { return o.ID }),
	}
}

// FetchAll loads every order (admin).
func (s *OrdersSlice) FetchAll(ctx context.Context) error {
	return s.fetchAll(ctx, "fetchAllOrders", s.load("/orders"))
}

// FetchMine loads the signed-in customer's orders.
func (s *OrdersSlice) FetchMine(ctx context.Context) error {
	return s.fetchAll(ctx, "fetchUserOrders", s.load("/orders/my-orders"))
}

func (s *OrdersSlice) FetchByID(ctx context.Context, id int64) (models.Order, error) {
	var order models.Order
	err := s.mutate(ctx, "fetchOrderById",
		func(ctx context.Context) error { return s.api.Get(ctx, fmt.Sprintf("/orders/%d", id), &order) },
		func(c *Collection[models.Order]) { c.Upsert(order) },
	)
	return order, err
}

func (s *OrdersSlice) Create(ctx context.Context, input models.PlaceOrder) (models.Order, error) {
	if strings.TrimSpace(input.DeliveryAddress) == "" || strings.TrimSpace(input.Phone) == "" {
		return models.Order{}, ErrMissingDelivery
	}

	var order models.Order
	err := s.mutate(ctx, "createOrder",
		func(ctx context.Context) error { return s.api.Post(ctx, "/orders", input, &order) },
		func(c *Collection[models.Order]) { c.Upsert(order) },
	)
	return order, err
}

// UpdateStatus asks the server for a transition through the narrow status
// sub-resource. Locally only the status field of the matching order changes.
func (s *OrdersSlice) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, ErrInvalidStatus
	}

	var settled models.Order
	var updated models.Order
	err := s.mutate(ctx, "updateOrderStatus",
		func(ctx context.Context) error {
			return s.api.Put(ctx, fmt.Sprintf("/orders/%d/status", id), models.StatusChange{Status: status}, &settled)
		},
		func(c *Collection[models.Order]) {
			next := status
			if settled.Status.Valid() {
				next = settled.Status
			}
			c.Modify(id, func(o *models.Order) { o.Status = next })
			updated, _ = c.Get(id)
		},
	)
	if err != nil {
		return models.Order{}, err
	}
	if updated.ID == 0 {
		return settled, nil
	}
	return updated, nil
}

func (s *OrdersSlice) Get(id int64) (models.Order, bool) {
	return s.get(id)
}

func (s *OrdersSlice) Reset() {
	s.reset()
}

func (s *OrdersSlice) Snapshot() View[models.Order] {
	return s.view()
}

func (s *OrdersSlice) load(path string) func(context.Context) ([]models.Order, error) {
	return func(ctx context.Context) ([]models.Order, error) {
		var orders []models.Order
		err := s.api.Get(ctx, path, &orders)
		return orders, err
	}
}
