package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/state"
)

type orderView struct {
	models.Order
	StatusLabel string `json:"statusLabel"`
}

func newOrderView(order models.Order) orderView {
	return orderView{Order: order, StatusLabel: order.Status.Label()}
}

func newOrderViews(orders []models.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order))
	}
	return views
}

type ordersView struct {
	Orders []orderView  `json:"orders"`
	Status state.Status `json:"status"`
	Error  string       `json:"error,omitempty"`
}

func (h HandlerSet) MyOrders(c *gin.Context) {
	_ = h.store.Orders.FetchMine(actionContext(c))

	orders := h.store.Orders.Snapshot()
	c.JSON(http.StatusOK, ordersView{
		Orders: newOrderViews(orders.Items),
		Status: orders.Status,
		Error:  orders.Error,
	})
}
