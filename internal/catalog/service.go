package catalog

import (
	"context"
	"fmt"

	"github.com/parfumelle/parfumelle-backend/internal/discounts"
	"github.com/parfumelle/parfumelle-backend/pkg/db"
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pricer computes discounted prices for catalog reads.
type Pricer interface {
	PriceProduct(ctx context.Context, product models.Product) (discounts.ProductPricing, error)
	PriceProducts(ctx context.Context, products []models.Product) ([]discounts.ProductPricing, error)
}

// Service exposes catalog browsing and seller inventory management.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters) ([]discounts.ProductPricing, error)
	GetProduct(ctx context.Context, id uuid.UUID) (discounts.ProductPricing, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	CreateBrand(ctx context.Context, name, description string) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo   Repository
	pricer Pricer
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, pricer Pricer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	return &service{repo: repo, pricer: pricer}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) ([]discounts.ProductPricing, error) {
	if filters.PriceMin != nil && filters.PriceMax != nil && filters.PriceMax.LessThan(*filters.PriceMin) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_max below price_min")
	}

	products, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	priced, err := s.pricer.PriceProducts(ctx, products)
	if err != nil {
		return nil, err
	}
	return priced, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (discounts.ProductPricing, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return discounts.ProductPricing{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return discounts.ProductPricing{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return s.pricer.PriceProduct(ctx, *product)
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.BrandID == uuid.Nil || input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand and category required")
	}
	if !input.Volume.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volume must be 50, 100, or 200")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		BrandID:     input.BrandID,
		CategoryID:  input.CategoryID,
		Volume:      input.Volume,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		product.Name = *input.Name
	}
	if input.BrandID != nil {
		product.BrandID = *input.BrandID
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Volume != nil {
		if !input.Volume.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "volume must be 50, 100, or 200")
		}
		product.Volume = *input.Volume
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) CreateBrand(ctx context.Context, name, description string) (*models.Brand, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name required")
	}
	brand := &models.Brand{ID: uuid.New(), Name: name, Description: description}
	created, err := s.repo.CreateBrand(ctx, brand)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return created, nil
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return brands, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	category := &models.Category{ID: uuid.New(), Name: name}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return created, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}
