package selectors

import (
	"strings"

	"santamartha/storefront/internal/models"
)

// LowStockThreshold is the stock level at or under which a product needs
// restocking.
const LowStockThreshold = 10

// ActiveProducts is what the customer catalog shows.
func ActiveProducts(products []models.Product) []models.Product {
	return filterProducts(products, func(p models.Product) bool { return !p.IsArchived })
}

func ArchivedProducts(products []models.Product) []models.Product {
	return filterProducts(products, func(p models.Product) bool { return p.IsArchived })
}

func SearchByName(products []models.Product, query string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return filterProducts(products, func(models.Product) bool { return true })
	}
	return filterProducts(products, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), query)
	})
}

func LowStock(products []models.Product) []models.Product {
	return filterProducts(products, func(p models.Product) bool {
		return p.Stock > 0 && p.Stock <= LowStockThreshold
	})
}

func OutOfStock(products []models.Product) []models.Product {
	return filterProducts(products, func(p models.Product) bool { return p.Stock == 0 })
}

// LowStockCount counts products at or under the threshold, out of stock
// included.
func LowStockCount(products []models.Product) int {
	count := 0
	for _, p := range products {
		if p.Stock <= LowStockThreshold {
			count++
		}
	}
	return count
}

func filterProducts(products []models.Product, keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
