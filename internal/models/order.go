package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists the statuses in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pendiente",
	OrderStatusProcessing: "En Proceso",
	OrderStatusShipped:    "Enviado",
	OrderStatusDelivered:  "Entregado",
	OrderStatusCompleted:  "Completado",
	OrderStatusCancelled:  "Cancelado",
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// Label is the storefront display text; unknown statuses display as-is.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

type OrderItem struct {
	ID       int64           `json:"id,omitempty"`
	Product  *Product        `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Phone           string          `json:"phone"`
	OrderItems      []OrderItem     `json:"orderItems"`
	User            *User           `json:"user"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type PlaceOrder struct {
	DeliveryAddress string `json:"deliveryAddress"`
	Phone           string `json:"phone"`
}

type StatusChange struct {
	Status OrderStatus `json:"status"`
}
