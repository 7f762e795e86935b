package orders

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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  created_at DATETIME,
  updated_at DATETIME
);`,
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
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price NUMERIC NOT NULL,
  discount_applied NUMERIC NOT NULL DEFAULT 0,
  promo_code TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
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

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "x",
		Role:         enums.UserRoleCustomer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedOrderProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
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
		Price:      dec("50.00"),
		Stock:      10,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, user *models.User, total string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:         uuid.New(),
		UserID:     user.ID,
		Status:     enums.OrderStatusPending,
		TotalPrice: dec(total),
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFindOrderWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "claire")
	product := seedOrderProduct(t, db, "Noir")

	order, err := repo.CreateOrder(ctx, &models.Order{
		ID:         uuid.New(),
		UserID:     user.ID,
		Status:     enums.OrderStatusPending,
		TotalPrice: dec("0"),
	})
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrderItems(ctx, []models.OrderItem{{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  2,
		Price:     dec("45.00"),
	}}))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, loaded.Items[0].Price.Equal(dec("45.00")))
	assert.Equal(t, "Noir", loaded.Items[0].Product.Name)
}

func TestRepositoryListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedOrder(t, db, alice, "10.00")
	seedOrder(t, db, alice, "20.00")
	seedOrder(t, db, bob, "30.00")

	got, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "carol")
	order := seedOrder(t, db, user, "10.00")

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, loaded.Status)
}
