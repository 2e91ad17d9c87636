package selectors

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/state"
)

// Memo caches one derived value against the version of the collection it was
// computed from.
type Memo[T any] struct {
	mu      sync.Mutex
	valid   bool
	version uint64
	value   T
}

func (m *Memo[T]) Get(version uint64, compute func() T) T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.version == version {
		return m.value
	}
	m.value = compute()
	m.version = version
	m.valid = true
	return m.value
}

type CartTotals struct {
	Items int             `json:"totalItems"`
	Price decimal.Decimal `json:"totalPrice"`
}

type DashboardMetrics struct {
	TodaysRevenue     decimal.Decimal `json:"todaysRevenue"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	PendingOrders     int             `json:"pendingOrders"`
	NewCustomersToday int             `json:"newCustomersToday"`
	LowStockProducts  int             `json:"lowStockProducts"`
	MonthlySales      []MonthlySale   `json:"salesData"`
	RecentOrders      []models.Order  `json:"recentOrders"`
}

// Memoized holds the memo cells for the derivations that are worth caching.
// One instance belongs to one Store.
type Memoized struct {
	cart    Memo[CartTotals]
	monthly Memo[[]MonthlySale]
}

func NewMemoized() *Memoized {
	return &Memoized{}
}

func (m *Memoized) CartTotals(cart state.View[models.CartItem]) CartTotals {
	return m.cart.Get(cart.Version, func() CartTotals {
		return CartTotals{Items: TotalItems(cart.Items), Price: TotalPrice(cart.Items)}
	})
}

func (m *Memoized) MonthlySales(orders state.View[models.Order]) []MonthlySale {
	return m.monthly.Get(orders.Version, func() []MonthlySale {
		return MonthlySales(orders.Items)
	})
}

func (m *Memoized) Dashboard(orders state.View[models.Order], products []models.Product, users []models.User, now time.Time) DashboardMetrics {
	return DashboardMetrics{
		TodaysRevenue:     RevenueOn(orders.Items, now),
		TotalRevenue:      TotalRevenue(orders.Items),
		TotalOrders:       len(orders.Items),
		PendingOrders:     PendingOrders(orders.Items),
		NewCustomersToday: NewCustomersOn(users, now),
		LowStockProducts:  LowStockCount(products),
		MonthlySales:      m.MonthlySales(orders),
		RecentOrders:      RecentCompleted(orders.Items, 5),
	}
}
