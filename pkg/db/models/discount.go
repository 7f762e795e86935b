package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parfumelle/parfumelle-backend/pkg/enums"
)

// Discount is one pricing rule. The three scope associations narrow product
// discounts; when all three are empty the rule applies to every product.
// Uses counts successful promo redemptions only.
type Discount struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          *string                 `gorm:"column:code;uniqueIndex"`
	DiscountType  enums.DiscountType      `gorm:"column:discount_type;not null"`
	ValueType     enums.DiscountValueType `gorm:"column:value_type;not null"`
	Value         decimal.Decimal         `gorm:"column:value;type:numeric(10,2);not null"`
	StartDate     *time.Time              `gorm:"column:start_date"`
	EndDate       *time.Time              `gorm:"column:end_date"`
	Products      []Product               `gorm:"many2many:discount_products;constraint:OnDelete:CASCADE"`
	Categories    []Category              `gorm:"many2many:discount_categories;constraint:OnDelete:CASCADE"`
	Brands        []Brand                 `gorm:"many2many:discount_brands;constraint:OnDelete:CASCADE"`
	MinOrderValue *decimal.Decimal        `gorm:"column:min_order_value;type:numeric(10,2)"`
	MinItems      *int                    `gorm:"column:min_items"`
	MaxUses       *int                    `gorm:"column:max_uses"`
	Uses          int                     `gorm:"column:uses;not null;default:0"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
