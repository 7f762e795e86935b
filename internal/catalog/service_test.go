package catalog

import (
	"context"
	"testing"

	"github.com/parfumelle/parfumelle-backend/internal/discounts"
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughPricer returns every product at its list price.
type passthroughPricer struct{}

func (passthroughPricer) PriceProduct(_ context.Context, p models.Product) (discounts.ProductPricing, error) {
	return discounts.ProductPricing{Product: p, DiscountedPrice: p.Price}, nil
}

func (pp passthroughPricer) PriceProducts(ctx context.Context, products []models.Product) ([]discounts.ProductPricing, error) {
	out := make([]discounts.ProductPricing, 0, len(products))
	for _, p := range products {
		priced, _ := pp.PriceProduct(ctx, p)
		out = append(out, priced)
	}
	return out, nil
}

func newCatalogService(t *testing.T) (Service, Repository) {
	t.Helper()

	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, passthroughPricer{})
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc, repo := newCatalogService(t)
	ctx := context.Background()

	brand, err := svc.CreateBrand(ctx, "Maison Lumière", "fine fragrance house")
	require.NoError(t, err)
	category, err := svc.CreateCategory(ctx, "Floral")
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Bad Volume",
		BrandID:    brand.ID,
		CategoryID: category.ID,
		Volume:     enums.ProductVolume(75),
		Price:      dec("10.00"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Lumière Eau",
		BrandID:    brand.ID,
		CategoryID: category.ID,
		Volume:     enums.ProductVolume100,
		Price:      dec("65.00"),
		Stock:      12,
	})
	require.NoError(t, err)

	reloaded, err := repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, reloaded.Stock)
	assert.True(t, reloaded.Price.Equal(dec("65.00")))
}

func TestServiceUpdateProductPartial(t *testing.T) {
	svc, repo := newCatalogService(t)
	ctx := context.Background()

	brand, err := svc.CreateBrand(ctx, "Brand", "")
	require.NoError(t, err)
	category, err := svc.CreateCategory(ctx, "Category")
	require.NoError(t, err)
	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Original",
		BrandID:    brand.ID,
		CategoryID: category.ID,
		Volume:     enums.ProductVolume50,
		Price:      dec("30.00"),
		Stock:      5,
	})
	require.NoError(t, err)

	newPrice := dec("35.00")
	newStock := 8
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &newPrice, Stock: &newStock})
	require.NoError(t, err)

	reloaded, err := repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", reloaded.Name)
	assert.Equal(t, 8, reloaded.Stock)
	assert.True(t, reloaded.Price.Equal(newPrice))

	_, err = svc.UpdateProduct(ctx, uuid.New(), UpdateProductInput{Stock: &newStock})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListProductsRejectsInvertedPriceRange(t *testing.T) {
	svc, _ := newCatalogService(t)

	lo, hi := dec("10.00"), dec("50.00")
	_, err := svc.ListProducts(context.Background(), ProductFilters{PriceMin: &hi, PriceMax: &lo})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceCreateBrandConflict(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateBrand(ctx, "Twice", "")
	require.NoError(t, err)
	_, err = svc.CreateBrand(ctx, "Twice", "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}
