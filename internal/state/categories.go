package state

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/models"
)

type CategoriesSlice struct {
	*resource[models.Category]
}

func NewCategoriesSlice(api Requester, log zerolog.Logger) *CategoriesSlice {
	return &CategoriesSlice{
		resource: newResource(api, log, "categories", func(c models.Category) int64 { return c.ID }),
	}
}

func (s *CategoriesSlice) FetchAll(ctx context.Context) error {
	return s.fetchAll(ctx, "fetchCategories", func(ctx context.Context) ([]models.Category, error) {
		var categories []models.Category
		err := s.api.Get(ctx, "/categories", &categories)
		return categories, err
	})
}

func (s *CategoriesSlice) Create(ctx context.Context, input models.CategoryInput) (models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Category{}, ErrMissingName
	}

	var category models.Category
	err := s.mutate(ctx, "createCategory",
		func(ctx context.Context) error { return s.api.Post(ctx, "/categories", input, &category) },
		func(c *Collection[models.Category]) { c.Upsert(category) },
	)
	return category, err
}

func (s *CategoriesSlice) Snapshot() View[models.Category] {
	return s.view()
}
