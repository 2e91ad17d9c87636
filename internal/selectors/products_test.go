package selectors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"santamartha/storefront/internal/models"
)

func ids(products []models.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

var catalog = []models.Product{
	{ID: 1, Name: "Concha de vainilla", Stock: 0},
	{ID: 2, Name: "Bolillo", Stock: 40},
	{ID: 3, Name: "Concha de chocolate", Stock: 10, IsArchived: true},
	{ID: 4, Name: "Oreja", Stock: 3},
}

func TestActiveAndArchivedPartition(t *testing.T) {
	active := ActiveProducts(catalog)
	archived := ArchivedProducts(catalog)

	assert.Equal(t, []int64{1, 2, 4}, ids(active))
	assert.Equal(t, []int64{3}, ids(archived))
	assert.Len(t, catalog, len(active)+len(archived))
}

func TestSearchByName(t *testing.T) {
	assert.Equal(t, []int64{1, 3}, ids(SearchByName(catalog, "  CONCHA ")))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(SearchByName(catalog, "")))
	assert.Empty(t, SearchByName(catalog, "pastel"))
}

func TestStockPartitions(t *testing.T) {
	assert.Equal(t, []int64{3, 4}, ids(LowStock(catalog)))
	assert.Equal(t, []int64{1}, ids(OutOfStock(catalog)))
	assert.Equal(t, 3, LowStockCount(catalog))
	assert.Zero(t, LowStockCount(nil))
}
