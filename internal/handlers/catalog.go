package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/selectors"
	"santamartha/storefront/internal/state"
)

type filtersView struct {
	CategoryID *int64 `json:"categoryId"`
	Search     string `json:"search"`
	SortBy     string `json:"sortBy"`
}

type catalogView struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
	Filters    filtersView       `json:"filters"`
	Status     state.Status      `json:"status"`
	Error      string            `json:"error,omitempty"`
}

// Catalog records the filters from the query string, then loads products and
// (once) categories side by side. Archived products are never listed.
func (h HandlerSet) Catalog(c *gin.Context) {
	products := h.store.Products
	if raw, ok := c.GetQuery("category"); ok {
		var categoryID *int64
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			categoryID = &id
		}
		products.SetCategory(categoryID)
	}
	if search, ok := c.GetQuery("search"); ok {
		products.SetSearch(search)
	}
	if sortBy, ok := c.GetQuery("sort"); ok {
		products.SetSort(sortBy)
	}

	ctx := actionContext(c)
	var g errgroup.Group
	g.Go(func() error { return products.FetchAll(ctx) })
	if h.store.Categories.Snapshot().Status == state.StatusIdle {
		g.Go(func() error { return h.store.Categories.FetchAll(ctx) })
	}
	// Failures are already on the slices and render inline.
	_ = g.Wait()

	snapshot := products.Snapshot()
	c.JSON(http.StatusOK, catalogView{
		Products:   selectors.ActiveProducts(snapshot.Items),
		Categories: h.store.Categories.Snapshot().Items,
		Filters: filtersView{
			CategoryID: snapshot.Filters.CategoryID,
			Search:     snapshot.Filters.Search,
			SortBy:     snapshot.Filters.SortBy,
		},
		Status: snapshot.Status,
		Error:  snapshot.Error,
	})
}

type productDetailView struct {
	Product   *models.Product `json:"product"`
	InCart    int             `json:"inCart"`
	Available int             `json:"available"`
	Error     string          `json:"error,omitempty"`
}

func (h HandlerSet) ProductDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.store.Products.FetchByID(actionContext(c), id)
	if err != nil {
		c.JSON(http.StatusOK, productDetailView{Error: err.Error()})
		return
	}
	if product.IsArchived {
		c.JSON(http.StatusOK, productDetailView{Error: state.ErrProductArchived.Error()})
		return
	}

	inCart := 0
	for _, item := range h.store.Cart.Snapshot().Items {
		if item.Product != nil && item.Product.ID == product.ID {
			inCart += item.Quantity
		}
	}

	c.JSON(http.StatusOK, productDetailView{
		Product:   &product,
		InCart:    inCart,
		Available: max(product.Stock-inCart, 0),
	})
}
