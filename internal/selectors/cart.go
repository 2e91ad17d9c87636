package selectors

import (
	"github.com/shopspring/decimal"

	"santamartha/storefront/internal/models"
)

func TotalItems(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price*quantity. Lines whose product is gone contribute 0.
func TotalPrice(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func CheckoutTotal(subtotal, shippingFee decimal.Decimal) decimal.Decimal {
	return subtotal.Add(shippingFee)
}
