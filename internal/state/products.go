package state

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/models"
)

type ProductsState struct {
	View[models.Product]
	Filters models.ProductFilters `json:"filters"`
}

type ProductsSlice struct {
	*resource[models.Product]
	filters models.ProductFilters
}

func NewProductsSlice(api Requester, log zerolog.Logger) *ProductsSlice {
	return &ProductsSlice{
		resource: newResource(api, log, "products", func(p models.Product) int64 { return p.ID }),
	}
}

// SetCategory, SetSearch and SetSort only record the filter; the next
// FetchAll sends it to the server.
func (s *ProductsSlice) SetCategory(categoryID *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.CategoryID = categoryID
}

func (s *ProductsSlice) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Search = strings.TrimSpace(query)
}

func (s *ProductsSlice) SetSort(sortBy string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SortBy = sortBy
}

func (s *ProductsSlice) Filters() models.ProductFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// FetchAll loads the catalog using the recorded filters as query parameters.
func (s *ProductsSlice) FetchAll(ctx context.Context) error {
	return s.fetchWith(ctx, "fetchProducts", s.Filters())
}

// FetchUnfiltered loads every product, archived ones included, regardless of
// the catalog filters. The back office uses it.
func (s *ProductsSlice) FetchUnfiltered(ctx context.Context) error {
	return s.fetchWith(ctx, "fetchAllProducts", models.ProductFilters{})
}

func (s *ProductsSlice) fetchWith(ctx context.Context, action string, filters models.ProductFilters) error {
	path := "/products"
	if query := productQuery(filters); query != "" {
		path += "?" + query
	}
	return s.fetchAll(ctx, action, func(ctx context.Context) ([]models.Product, error) {
		var products []models.Product
		err := s.api.Get(ctx, path, &products)
		return products, err
	})
}

// FetchByID loads a single product and upserts it into the collection.
func (s *ProductsSlice) FetchByID(ctx context.Context, id int64) (models.Product, error) {
	var product models.Product
	err := s.mutate(ctx, "fetchProductById",
		func(ctx context.Context) error {
			return s.api.Get(ctx, fmt.Sprintf("/products/%d", id), &product)
		},
		func(c *Collection[models.Product]) { c.Upsert(product) },
	)
	return product, err
}

func (s *ProductsSlice) Create(ctx context.Context, input models.ProductInput) (models.Product, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return models.Product{}, ErrMissingName
	}
	if err := validateProductInput(input); err != nil {
		return models.Product{}, err
	}

	var product models.Product
	err := s.mutate(ctx, "createProduct",
		func(ctx context.Context) error { return s.api.Post(ctx, "/products", input, &product) },
		func(c *Collection[models.Product]) { c.Upsert(product) },
	)
	return product, err
}

// Update replaces the product wholesale with the server's copy.
func (s *ProductsSlice) Update(ctx context.Context, id int64, input models.ProductInput) (models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return models.Product{}, err
	}

	var product models.Product
	err := s.mutate(ctx, "updateProduct",
		func(ctx context.Context) error {
			return s.api.Put(ctx, fmt.Sprintf("/products/%d", id), input, &product)
		},
		func(c *Collection[models.Product]) { c.Replace(product) },
	)
	return product, err
}

// SetArchived archives (true) or restores (false) a product. It is kept apart
// from Update so a soft delete never travels with field edits.
func (s *ProductsSlice) SetArchived(ctx context.Context, id int64, archive bool) (models.Product, error) {
	action := "restoreProduct"
	if archive {
		action = "archiveProduct"
	}

	var product models.Product
	err := s.mutate(ctx, action,
		func(ctx context.Context) error {
			path := fmt.Sprintf("/products/%d/archive?archive=%s", id, strconv.FormatBool(archive))
			return s.api.Patch(ctx, path, nil, &product)
		},
		func(c *Collection[models.Product]) { c.Replace(product) },
	)
	return product, err
}

func (s *ProductsSlice) Get(id int64) (models.Product, bool) {
	return s.get(id)
}

func (s *ProductsSlice) ClearError() {
	s.clearError()
}

func (s *ProductsSlice) Snapshot() ProductsState {
	s.mu.RLock()
	filters := s.filters
	s.mu.RUnlock()
	return ProductsState{View: s.view(), Filters: filters}
}

func productQuery(filters models.ProductFilters) string {
	values := url.Values{}
	if filters.CategoryID != nil {
		values.Set("categoryId", strconv.FormatInt(*filters.CategoryID, 10))
	}
	if filters.Search != "" {
		values.Set("search", filters.Search)
	}
	if filters.SortBy != "" {
		values.Set("sortBy", filters.SortBy)
	}
	return values.Encode()
}

func validateProductInput(input models.ProductInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return ErrMissingName
	}
	if input.Price != nil && input.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if input.Stock != nil && *input.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
