package cart

import (
	"context"
	"fmt"

	"github.com/parfumelle/parfumelle-backend/internal/discounts"
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type discounter interface {
	PriceProducts(ctx context.Context, products []models.Product) ([]discounts.ProductPricing, error)
	OrderDiscountImpact(ctx context.Context, items []discounts.LineItem) (decimal.Decimal, error)
	ValidatePromoCode(ctx context.Context, code string, total decimal.Decimal, itemsCount int) (*models.Discount, error)
	RedeemedPromo(ctx context.Context, code string) (*models.Discount, error)
	RedeemPromoCode(ctx context.Context, tx *gorm.DB, code string, total decimal.Decimal, itemsCount int) (discounts.PromoResult, error)
}

// Service exposes session cart operations.
type Service interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID) (int64, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) error
	View(ctx context.Context, sessionID string) (View, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (View, error)
	Items(ctx context.Context, sessionID string) (map[uuid.UUID]int, error)
	PromoCode(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store      *Store
	products   productFinder
	discounter discounter
}

// NewService builds a cart service with the required dependencies.
func NewService(store *Store, products productFinder, disc discounter) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if disc == nil {
		return nil, fmt.Errorf("discounter required")
	}
	return &service{store: store, products: products, discounter: disc}, nil
}

// Add puts one more unit of the product into the session cart. Products with
// zero stock are rejected outright.
func (s *service) Add(ctx context.Context, sessionID string, productID uuid.UUID) (int64, error) {
	if sessionID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "session required")
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Stock < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is out of stock", product.Name))
	}

	qty, err := s.store.IncrementItem(ctx, sessionID, productID, 1)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}
	return qty, nil
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if err := s.store.RemoveItem(ctx, sessionID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}
	return nil
}

// View prices the cart. Quantities above live stock are clamped down and
// written back; products that disappeared from the catalog are dropped.
func (s *service) View(ctx context.Context, sessionID string) (View, error) {
	items, err := s.store.Items(ctx, sessionID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	type pending struct {
		product  models.Product
		quantity int
		adjusted bool
	}
	var entries []pending
	for id, qty := range items {
		product, err := s.products.FindProductByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.store.RemoveItem(ctx, sessionID, id); err != nil {
					return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune cart")
				}
				continue
			}
			return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		adjusted := false
		if product.Stock < qty {
			if err := s.store.SetItemQuantity(ctx, sessionID, id, product.Stock); err != nil {
				return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clamp cart line")
			}
			qty = product.Stock
			adjusted = true
		}
		if qty <= 0 {
			continue
		}
		entries = append(entries, pending{product: *product, quantity: qty, adjusted: adjusted})
	}

	view := View{
		Total:         decimal.Zero,
		OrderDiscount: decimal.Zero,
		PromoDiscount: decimal.Zero,
	}
	if len(entries) == 0 {
		view.FinalTotal = decimal.Zero
		return view, nil
	}

	productsOnly := make([]models.Product, 0, len(entries))
	for _, e := range entries {
		productsOnly = append(productsOnly, e.product)
	}
	priced, err := s.discounter.PriceProducts(ctx, productsOnly)
	if err != nil {
		return View{}, err
	}

	itemsCount := 0
	lineItems := make([]discounts.LineItem, 0, len(entries))
	for i, e := range entries {
		subtotal := priced[i].DiscountedPrice.Mul(decimal.NewFromInt(int64(e.quantity)))
		view.Lines = append(view.Lines, Line{
			Product:   e.product,
			Quantity:  e.quantity,
			UnitPrice: priced[i].DiscountedPrice,
			Subtotal:  subtotal,
			Discount:  priced[i].Applied,
			Adjusted:  e.adjusted,
		})
		view.Total = view.Total.Add(subtotal)
		itemsCount += e.quantity
		lineItems = append(lineItems, discounts.LineItem{
			ProductID: e.product.ID,
			Quantity:  e.quantity,
			Subtotal:  subtotal,
		})
	}

	orderImpact, err := s.discounter.OrderDiscountImpact(ctx, lineItems)
	if err != nil {
		return View{}, err
	}
	view.OrderDiscount = orderImpact

	code, err := s.store.Promo(ctx, sessionID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}
	if code != "" {
		// the session already consumed a use when the code was applied, so
		// the lookup must not re-check the usage cap
		promo, err := s.discounter.RedeemedPromo(ctx, code)
		if err == nil && discounts.PromoEligible(*promo, view.Total, itemsCount) {
			view.PromoCode = code
			view.PromoDiscount = discounts.PromoImpact(*promo, view.Total)
		}
	}

	view.FinalTotal = view.Total.Sub(view.OrderDiscount).Sub(view.PromoDiscount)
	return view, nil
}

// ApplyPromo redeems the code against the current cart and records it on the
// session. The redemption consumes one use immediately.
func (s *service) ApplyPromo(ctx context.Context, sessionID, code string) (View, error) {
	view, err := s.View(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if view.Empty() {
		return View{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	itemsCount := 0
	for _, line := range view.Lines {
		itemsCount += line.Quantity
	}

	res, err := s.discounter.RedeemPromoCode(ctx, nil, code, view.Total, itemsCount)
	if err != nil {
		return View{}, err
	}
	if err := s.store.SetPromo(ctx, sessionID, code); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record promo code")
	}

	view.PromoCode = code
	view.PromoDiscount = res.Impact
	view.FinalTotal = view.Total.Sub(view.OrderDiscount).Sub(view.PromoDiscount)
	return view, nil
}

func (s *service) Items(ctx context.Context, sessionID string) (map[uuid.UUID]int, error) {
	items, err := s.store.Items(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return items, nil
}

func (s *service) PromoCode(ctx context.Context, sessionID string) (string, error) {
	code, err := s.store.Promo(ctx, sessionID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}
	return code, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
