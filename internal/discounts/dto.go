package discounts

import (
	"time"

	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDiscountInput carries the fields a seller supplies when creating a
// discount rule.
type CreateDiscountInput struct {
	Code          *string
	DiscountType  enums.DiscountType
	ValueType     enums.DiscountValueType
	Value         decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
	ProductIDs    []uuid.UUID
	CategoryIDs   []uuid.UUID
	BrandIDs      []uuid.UUID
	MinOrderValue *decimal.Decimal
	MinItems      *int
	MaxUses       *int
}

// ProductPricing pairs a product with its discounted price and the rule that
// produced it (nil when no discount applies).
type ProductPricing struct {
	Product         models.Product
	DiscountedPrice decimal.Decimal
	Applied         *models.Discount
}

// PromoResult reports a successful promo redemption.
type PromoResult struct {
	Discount *models.Discount
	Impact   decimal.Decimal
}
