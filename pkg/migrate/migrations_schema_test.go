package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parfumelle/parfumelle-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS brands",
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS products",
		"volume integer NOT NULL CHECK (volume IN (50, 100, 200))",
		"price numeric(10,2) NOT NULL",
		"stock integer NOT NULL DEFAULT 0 CHECK (stock >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_products_price",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDiscountsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_discounts_tables.sql")

	checks := []string{
		"CREATE TYPE discount_type AS ENUM ('product', 'order', 'promo')",
		"CREATE TYPE discount_value_type AS ENUM ('percentage', 'fixed')",
		"CREATE TABLE IF NOT EXISTS discounts",
		"CREATE TABLE IF NOT EXISTS discount_products",
		"CREATE TABLE IF NOT EXISTS discount_categories",
		"CREATE TABLE IF NOT EXISTS discount_brands",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_discounts_code ON discounts (code) WHERE code IS NOT NULL",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_orders_tables.sql")

	checks := []string{
		"CREATE TYPE order_status AS ENUM ('pending', 'processing', 'shipped', 'delivered')",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"quantity integer NOT NULL CHECK (quantity > 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
