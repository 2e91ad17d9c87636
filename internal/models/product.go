package models

import "github.com/shopspring/decimal"

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Category    *Category       `json:"category"`
	IsArchived  bool            `json:"isArchived"`
}

// ProductInput is the create/update payload. Nil fields are omitted so that a
// stock-only edit does not send the rest of the product.
type ProductInput struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Images      []string         `json:"images,omitempty"`
	CategoryID  *int64           `json:"categoryId,omitempty"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ProductFilters are the catalog query parameters. They only take effect on
// the next fetch.
type ProductFilters struct {
	CategoryID *int64
	Search     string
	SortBy     string
}
