package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parfumelle/parfumelle-backend/pkg/enums"
)

// Order is created atomically at checkout and is append-only afterwards
// except for staff-driven status transitions. TotalPrice is already net of
// per-item product discounts and the order-level DiscountApplied.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	User            *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalPrice      decimal.Decimal   `gorm:"column:total_price;type:numeric(10,2);not null"`
	DiscountApplied decimal.Decimal   `gorm:"column:discount_applied;type:numeric(10,2);not null;default:0"`
	PromoCode       *string           `gorm:"column:promo_code"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}
