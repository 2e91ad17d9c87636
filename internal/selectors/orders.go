package selectors

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"santamartha/storefront/internal/models"
)

var monthNames = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

type MonthlySale struct {
	Month string          `json:"month"`
	Label string          `json:"name"`
	Sales decimal.Decimal `json:"sales"`
}

// OrdersByStatus filters on status; an empty status keeps every order.
func OrdersByStatus(orders []models.Order, status models.OrderStatus) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func PendingOrders(orders []models.Order) int {
	return len(OrdersByStatus(orders, models.OrderStatusPending))
}

// TotalRevenue only counts completed orders.
func TotalRevenue(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == models.OrderStatusCompleted {
			total = total.Add(o.Total)
		}
	}
	return total
}

// RevenueOn is the completed revenue of the calendar day of day, in day's
// location.
func RevenueOn(orders []models.Order, day time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == models.OrderStatusCompleted && sameDay(o.CreatedAt, day) {
			total = total.Add(o.Total)
		}
	}
	return total
}

func NewCustomersOn(users []models.User, day time.Time) int {
	count := 0
	for _, u := range users {
		if sameDay(u.CreatedAt, day) {
			count++
		}
	}
	return count
}

// MonthlySales aggregates completed orders per calendar month, oldest first.
func MonthlySales(orders []models.Order) []MonthlySale {
	byMonth := make(map[string]*MonthlySale)
	for _, o := range orders {
		if o.Status != models.OrderStatusCompleted {
			continue
		}
		key := o.CreatedAt.Format("2006-01")
		sale, ok := byMonth[key]
		if !ok {
			sale = &MonthlySale{
				Month: key,
				Label: fmt.Sprintf("%s '%02d", monthNames[o.CreatedAt.Month()-1], o.CreatedAt.Year()%100),
				Sales: decimal.Zero,
			}
			byMonth[key] = sale
		}
		sale.Sales = sale.Sales.Add(o.Total)
	}

	out := make([]MonthlySale, 0, len(byMonth))
	for _, sale := range byMonth {
		out = append(out, *sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// RecentCompleted keeps the first n completed orders in collection order.
func RecentCompleted(orders []models.Order, n int) []models.Order {
	completed := OrdersByStatus(orders, models.OrderStatusCompleted)
	if len(completed) > n {
		completed = completed[:n]
	}
	return completed
}

func UnreadCount(notifications []models.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

func sameDay(t, day time.Time) bool {
	t = t.In(day.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
