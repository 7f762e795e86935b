package catalog

import (
	"context"
	"testing"

	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS brands (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  volume INTEGER NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedBrand(t *testing.T, db *gorm.DB, name string) *models.Brand {
	t.Helper()
	brand := &models.Brand{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string, brand *models.Brand, category *models.Category, volume enums.ProductVolume, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		BrandID:    brand.ID,
		CategoryID: category.ID,
		Volume:     volume,
		Price:      dec(price),
		Stock:      stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListProductsFiltersIntersect(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	chanel := seedBrand(t, db, "Maison Lumière")
	dior := seedBrand(t, db, "Atelier Verde")
	floral := seedCategory(t, db, "Floral")
	woody := seedCategory(t, db, "Woody")

	match := seedCatalogProduct(t, db, "Lumière Floral 100", chanel, floral, enums.ProductVolume100, "50.00", 5)
	seedCatalogProduct(t, db, "Lumière Floral 50", chanel, floral, enums.ProductVolume50, "20.00", 5)
	seedCatalogProduct(t, db, "Verde Woody 100", dior, woody, enums.ProductVolume100, "50.00", 5)
	seedCatalogProduct(t, db, "Lumière Floral 100 XL", chanel, floral, enums.ProductVolume100, "80.00", 5)

	priceMin, priceMax := dec("30.00"), dec("60.00")
	got, err := repo.ListProducts(ctx, ProductFilters{
		BrandIDs:    []uuid.UUID{chanel.ID},
		CategoryIDs: []uuid.UUID{floral.ID},
		Volumes:     []enums.ProductVolume{enums.ProductVolume100},
		PriceMin:    &priceMin,
		PriceMax:    &priceMax,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)
	assert.Equal(t, "Maison Lumière", got[0].Brand.Name)
	assert.Equal(t, "Floral", got[0].Category.Name)
}

func TestRepositoryListProductsNoFiltersReturnsAll(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	brand := seedBrand(t, db, "Brand")
	category := seedCategory(t, db, "Category")
	seedCatalogProduct(t, db, "A", brand, category, enums.ProductVolume50, "20.00", 1)
	seedCatalogProduct(t, db, "B", brand, category, enums.ProductVolume200, "80.00", 1)

	got, err := repo.ListProducts(context.Background(), ProductFilters{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRepositoryDecrementStockGuard(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	brand := seedBrand(t, db, "Brand")
	category := seedCategory(t, db, "Category")
	product := seedCatalogProduct(t, db, "Scarce", brand, category, enums.ProductVolume50, "20.00", 3)

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	// only one unit left, taking two must fail and leave stock untouched
	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)
}

func TestRepositoryBrandsAndCategories(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.CreateBrand(ctx, &models.Brand{ID: uuid.New(), Name: "Zeta"})
	require.NoError(t, err)
	_, err = repo.CreateBrand(ctx, &models.Brand{ID: uuid.New(), Name: "Alpha"})
	require.NoError(t, err)

	brands, err := repo.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Alpha", brands[0].Name)

	_, err = repo.CreateCategory(ctx, &models.Category{ID: uuid.New(), Name: "Citrus"})
	require.NoError(t, err)
	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
}
