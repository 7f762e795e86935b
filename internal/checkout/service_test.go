package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/parfumelle/parfumelle-backend/internal/catalog"
	"github.com/parfumelle/parfumelle-backend/internal/discounts"
	"github.com/parfumelle/parfumelle-backend/internal/orders"
	"github.com/parfumelle/parfumelle-backend/pkg/db"
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/parfumelle/parfumelle-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
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
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type fakeCart struct {
	items   map[uuid.UUID]int
	promo   string
	cleared bool
}

func (f *fakeCart) Items(_ context.Context, _ string) (map[uuid.UUID]int, error) {
	return f.items, nil
}

func (f *fakeCart) PromoCode(_ context.Context, _ string) (string, error) {
	return f.promo, nil
}

func (f *fakeCart) Clear(_ context.Context, _ string) error {
	f.cleared = true
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	conn  *gorm.DB
	cart  *fakeCart
	svc   Service
	user  *models.User
	brand *models.Brand
	cat   *models.Category
}

func newFixture(t *testing.T, cart *fakeCart) *fixture {
	t.Helper()

	conn := setupCheckoutTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Level: zerolog.ErrorLevel})

	svc, err := NewService(
		db.NewWithConn(conn),
		catalog.NewRepository(conn),
		orders.NewRepository(conn),
		discounts.NewRepository(conn),
		cart,
		logg,
		nil,
	)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Username: "buyer", PasswordHash: "x", Role: enums.UserRoleCustomer}
	require.NoError(t, conn.Create(user).Error)
	brand := &models.Brand{ID: uuid.New(), Name: "House"}
	require.NoError(t, conn.Create(brand).Error)
	cat := &models.Category{ID: uuid.New(), Name: "Floral"}
	require.NoError(t, conn.Create(cat).Error)

	return &fixture{conn: conn, cart: cart, svc: svc, user: user, brand: brand, cat: cat}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		BrandID:    f.brand.ID,
		CategoryID: f.cat.ID,
		Volume:     enums.ProductVolume100,
		Price:      dec(price),
		Stock:      stock,
	}
	require.NoError(t, f.conn.Create(p).Error)
	return p
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t, &fakeCart{items: map[uuid.UUID]int{}})

	_, err := f.svc.Checkout(context.Background(), f.user.ID, "sess")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, f.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutHappyPathWithOrderDiscount(t *testing.T) {
	cart := &fakeCart{items: map[uuid.UUID]int{}}
	f := newFixture(t, cart)
	product := f.product(t, "Oud Royale", "100.00", 5)
	cart.items[product.ID] = 1

	minOrder := dec("100")
	require.NoError(t, f.conn.Create(&models.Discount{
		ID:            uuid.New(),
		DiscountType:  enums.DiscountTypeOrder,
		ValueType:     enums.DiscountValueTypeFixed,
		Value:         dec("20.00"),
		MinOrderValue: &minOrder,
	}).Error)

	order, err := f.svc.Checkout(context.Background(), f.user.ID, "sess")
	require.NoError(t, err)

	assert.True(t, order.TotalPrice.Equal(dec("80.00")), "total %s", order.TotalPrice)
	assert.True(t, order.DiscountApplied.Equal(dec("20.00")), "discount %s", order.DiscountApplied)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, cart.cleared)

	var stock int
	require.NoError(t, f.conn.Raw(`SELECT stock FROM products WHERE id = ?`, product.ID).Scan(&stock).Error)
	assert.Equal(t, 4, stock)

	var items []models.OrderItem
	require.NoError(t, f.conn.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(dec("100.00")), "item price frozen at purchase")
}

func TestCheckoutAppliesProductDiscountToLinePrice(t *testing.T) {
	cart := &fakeCart{items: map[uuid.UUID]int{}}
	f := newFixture(t, cart)
	product := f.product(t, "Citrus", "50.00", 10)
	cart.items[product.ID] = 2

	require.NoError(t, f.conn.Create(&models.Discount{
		ID:           uuid.New(),
		DiscountType: enums.DiscountTypeProduct,
		ValueType:    enums.DiscountValueTypePercentage,
		Value:        dec("10"),
	}).Error)

	order, err := f.svc.Checkout(context.Background(), f.user.ID, "sess")
	require.NoError(t, err)

	// 50 -10% = 45 per unit, two units
	assert.True(t, order.TotalPrice.Equal(dec("90")), "total %s", order.TotalPrice)

	var items []models.OrderItem
	require.NoError(t, f.conn.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(dec("45")), "unit price %s", items[0].Price)
}

func TestCheckoutInsufficientStockRollsBackEverything(t *testing.T) {
	cart := &fakeCart{items: map[uuid.UUID]int{}}
	f := newFixture(t, cart)
	plenty := f.product(t, "Plenty", "10.00", 10)
	scarce := f.product(t, "Scarce", "10.00", 1)
	cart.items[plenty.ID] = 2
	cart.items[scarce.ID] = 3

	_, err := f.svc.Checkout(context.Background(), f.user.ID, "sess")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "Scarce")
	assert.False(t, cart.cleared)

	var orderCount, itemCount int64
	require.NoError(t, f.conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.conn.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount, "no partial order may persist")
	assert.Zero(t, itemCount)

	// stock untouched on both products, including the one processed first
	var stock int
	require.NoError(t, f.conn.Raw(`SELECT stock FROM products WHERE id = ?`, plenty.ID).Scan(&stock).Error)
	assert.Equal(t, 10, stock)
	require.NoError(t, f.conn.Raw(`SELECT stock FROM products WHERE id = ?`, scarce.ID).Scan(&stock).Error)
	assert.Equal(t, 1, stock)
}

func TestCheckoutRecordsPromoCode(t *testing.T) {
	cart := &fakeCart{items: map[uuid.UUID]int{}, promo: "TEN"}
	f := newFixture(t, cart)
	product := f.product(t, "Eau", "200.00", 5)
	cart.items[product.ID] = 1

	code := "TEN"
	require.NoError(t, f.conn.Create(&models.Discount{
		ID:           uuid.New(),
		Code:         &code,
		DiscountType: enums.DiscountTypePromo,
		ValueType:    enums.DiscountValueTypePercentage,
		Value:        dec("10"),
	}).Error)

	order, err := f.svc.Checkout(context.Background(), f.user.ID, "sess")
	require.NoError(t, err)

	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "TEN", *order.PromoCode)
	assert.True(t, order.DiscountApplied.Equal(dec("20")), "discount %s", order.DiscountApplied)
	assert.True(t, order.TotalPrice.Equal(dec("180")), "total %s", order.TotalPrice)

	// redeeming happened at apply time; checkout records without another use
	var uses int
	require.NoError(t, f.conn.Raw(`SELECT uses FROM discounts WHERE code = 'TEN'`).Scan(&uses).Error)
	assert.Equal(t, 0, uses)
}

func TestCheckoutHonorsFullyRedeemedPromo(t *testing.T) {
	cart := &fakeCart{items: map[uuid.UUID]int{}, promo: "LAST"}
	f := newFixture(t, cart)
	product := f.product(t, "Vetiver", "200.00", 5)
	cart.items[product.ID] = 1

	// applying the code consumed the final use; checkout must still honor it
	code := "LAST"
	maxUses := 1
	require.NoError(t, f.conn.Create(&models.Discount{
		ID:           uuid.New(),
		Code:         &code,
		DiscountType: enums.DiscountTypePromo,
		ValueType:    enums.DiscountValueTypeFixed,
		Value:        dec("20.00"),
		MaxUses:      &maxUses,
		Uses:         1,
	}).Error)

	order, err := f.svc.Checkout(context.Background(), f.user.ID, "sess")
	require.NoError(t, err)

	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "LAST", *order.PromoCode)
	assert.True(t, order.DiscountApplied.Equal(dec("20.00")), "discount %s", order.DiscountApplied)
	assert.True(t, order.TotalPrice.Equal(dec("180.00")), "total %s", order.TotalPrice)
}

func TestCheckoutIgnoresStalePromoCode(t *testing.T) {
	cart := &fakeCart{items: map[uuid.UUID]int{}, promo: "GONE"}
	f := newFixture(t, cart)
	product := f.product(t, "Eau", "60.00", 5)
	cart.items[product.ID] = 1

	code := "GONE"
	expired := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, f.conn.Create(&models.Discount{
		ID:           uuid.New(),
		Code:         &code,
		DiscountType: enums.DiscountTypePromo,
		ValueType:    enums.DiscountValueTypeFixed,
		Value:        dec("5.00"),
		EndDate:      &expired,
	}).Error)

	order, err := f.svc.Checkout(context.Background(), f.user.ID, "sess")
	require.NoError(t, err)

	assert.Nil(t, order.PromoCode)
	assert.True(t, order.DiscountApplied.IsZero())
	assert.True(t, order.TotalPrice.Equal(dec("60.00")))
}

func TestCheckoutRequiresUser(t *testing.T) {
	f := newFixture(t, &fakeCart{items: map[uuid.UUID]int{}})

	_, err := f.svc.Checkout(context.Background(), uuid.Nil, "sess")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
