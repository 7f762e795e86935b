package discounts

import (
	"time"

	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one cart or order entry as seen by the pricing engine.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	Subtotal  decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// IsActive reports whether the discount is inside its validity window and
// under its usage cap at time now.
func IsActive(d models.Discount, now time.Time) bool {
	if d.StartDate != nil && d.StartDate.After(now) {
		return false
	}
	if d.EndDate != nil && d.EndDate.Before(now) {
		return false
	}
	if d.MaxUses != nil && d.Uses >= *d.MaxUses {
		return false
	}
	return true
}

// AppliesToProduct reports whether a product discount's scope covers the
// product. A discount with no scoped products, categories, or brands applies
// to everything.
func AppliesToProduct(d models.Discount, p models.Product) bool {
	if len(d.Products) == 0 && len(d.Categories) == 0 && len(d.Brands) == 0 {
		return true
	}
	for _, sp := range d.Products {
		if sp.ID == p.ID {
			return true
		}
	}
	for _, sc := range d.Categories {
		if sc.ID == p.CategoryID {
			return true
		}
	}
	for _, sb := range d.Brands {
		if sb.ID == p.BrandID {
			return true
		}
	}
	return false
}

// SelectProductDiscount picks the product discount with the numerically
// greatest value among active rules scoped to the product. The raw value is
// compared regardless of value type, so a 20% rule beats a fixed-15 rule.
// Returns nil when no rule matches.
func SelectProductDiscount(p models.Product, active []models.Discount) *models.Discount {
	var best *models.Discount
	for i := range active {
		d := &active[i]
		if d.DiscountType != enums.DiscountTypeProduct {
			continue
		}
		if !AppliesToProduct(*d, p) {
			continue
		}
		if best == nil || d.Value.GreaterThan(best.Value) {
			best = d
		}
	}
	return best
}

// meetsOrderThresholds applies the shared min_order_value / min_items
// eligibility used by order and promo discounts.
func meetsOrderThresholds(d models.Discount, total decimal.Decimal, itemsCount int) bool {
	if d.MinOrderValue != nil && total.LessThan(*d.MinOrderValue) {
		return false
	}
	if d.MinItems != nil && itemsCount < *d.MinItems {
		return false
	}
	return true
}

// impactOn computes the monetary impact of the discount on the given total:
// the value itself for fixed discounts, total*value/100 for percentages.
func impactOn(d models.Discount, total decimal.Decimal) decimal.Decimal {
	if d.ValueType == enums.DiscountValueTypeFixed {
		return d.Value
	}
	return total.Mul(d.Value).Div(oneHundred)
}

// SelectOrderDiscount evaluates active order discounts against the order
// total and item count and returns the greatest monetary impact. Ties go to
// the first candidate encountered. The boolean is false when no rule
// qualifies; an empty order qualifies for nothing.
func SelectOrderDiscount(items []LineItem, active []models.Discount) (decimal.Decimal, bool) {
	total := decimal.Zero
	itemsCount := 0
	for _, it := range items {
		total = total.Add(it.Subtotal)
		itemsCount += it.Quantity
	}
	return selectOrderDiscountForTotal(total, itemsCount, active)
}

func selectOrderDiscountForTotal(total decimal.Decimal, itemsCount int, active []models.Discount) (decimal.Decimal, bool) {
	best := decimal.Zero
	found := false
	for _, d := range active {
		if d.DiscountType != enums.DiscountTypeOrder {
			continue
		}
		if !meetsOrderThresholds(d, total, itemsCount) {
			continue
		}
		impact := impactOn(d, total)
		if impact.GreaterThan(best) {
			best = impact
			found = true
		}
	}
	return best, found
}

// DiscountPrice returns the price after applying the discount: percentage
// discounts multiply, fixed discounts subtract. A fixed discount larger than
// the price yields a negative result; callers that want a floor clamp it
// themselves. A nil discount returns the price unchanged.
func DiscountPrice(price decimal.Decimal, d *models.Discount) decimal.Decimal {
	if d == nil {
		return price
	}
	if d.ValueType == enums.DiscountValueTypePercentage {
		return price.Mul(decimal.NewFromInt(1).Sub(d.Value.Div(oneHundred)))
	}
	return price.Sub(d.Value)
}

// PromoImpact computes the monetary impact of a promo discount on the total.
func PromoImpact(d models.Discount, total decimal.Decimal) decimal.Decimal {
	return impactOn(d, total)
}

// PromoEligible reports whether the promo discount's thresholds are met by
// the given total and item count.
func PromoEligible(d models.Discount, total decimal.Decimal, itemsCount int) bool {
	return meetsOrderThresholds(d, total, itemsCount)
}
