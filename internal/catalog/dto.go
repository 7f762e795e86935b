package catalog

import (
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilters describe the supported filter knobs for the browse endpoint.
// All present filters are intersected.
type ProductFilters struct {
	BrandIDs    []uuid.UUID           `json:"brands,omitempty"`
	CategoryIDs []uuid.UUID           `json:"categories,omitempty"`
	Volumes     []enums.ProductVolume `json:"volumes,omitempty"`
	PriceMin    *decimal.Decimal      `json:"price_min,omitempty"`
	PriceMax    *decimal.Decimal      `json:"price_max,omitempty"`
}

// CreateProductInput captures the fields a seller supplies for a new product.
type CreateProductInput struct {
	Name        string
	BrandID     uuid.UUID
	CategoryID  uuid.UUID
	Volume      enums.ProductVolume
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    *string
}

// UpdateProductInput carries partial product edits; nil fields are untouched.
type UpdateProductInput struct {
	Name        *string
	BrandID     *uuid.UUID
	CategoryID  *uuid.UUID
	Volume      *enums.ProductVolume
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
}
