package discounts

import (
	"testing"
	"time"

	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDiscountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS brands (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
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
		`CREATE TABLE IF NOT EXISTS discounts (
  id TEXT PRIMARY KEY,
  code TEXT,
  discount_type TEXT NOT NULL,
  value_type TEXT NOT NULL,
  value NUMERIC NOT NULL,
  start_date DATETIME,
  end_date DATETIME,
  min_order_value NUMERIC,
  min_items INTEGER,
  max_uses INTEGER,
  uses INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_discounts_code ON discounts (code) WHERE code IS NOT NULL;`,
		`CREATE TABLE IF NOT EXISTS discount_products (
  discount_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  PRIMARY KEY (discount_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS discount_categories (
  discount_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  PRIMARY KEY (discount_id, category_id)
);`,
		`CREATE TABLE IF NOT EXISTS discount_brands (
  discount_id TEXT NOT NULL,
  brand_id TEXT NOT NULL,
  PRIMARY KEY (discount_id, brand_id)
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string) *models.Product {
	t.Helper()

	brand := &models.Brand{ID: uuid.New(), Name: name + " brand"}
	require.NoError(t, db.Create(brand).Error)
	category := &models.Category{ID: uuid.New(), Name: name + " category"}
	require.NoError(t, db.Create(category).Error)

	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		BrandID:    brand.ID,
		CategoryID: category.ID,
		Volume:     enums.ProductVolume100,
		Price:      dec(price),
		Stock:      10,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedDiscount(t *testing.T, db *gorm.DB, d *models.Discount) *models.Discount {
	t.Helper()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

func window(start, end time.Time) (*time.Time, *time.Time) {
	return &start, &end
}
