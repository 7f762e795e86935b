package cart

import (
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Line is one cart entry priced at its discounted unit price.
type Line struct {
	Product   models.Product
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Discount  *models.Discount
	Adjusted  bool
}

// View is the fully priced cart: Total is the sum of line subtotals (already
// net of product discounts), FinalTotal subtracts the order and promo
// discounts on top.
type View struct {
	Lines         []Line
	Total         decimal.Decimal
	OrderDiscount decimal.Decimal
	PromoCode     string
	PromoDiscount decimal.Decimal
	FinalTotal    decimal.Decimal
}

// Empty reports whether the cart holds no lines.
func (v View) Empty() bool {
	return len(v.Lines) == 0
}
