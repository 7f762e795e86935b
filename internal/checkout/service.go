package checkout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/parfumelle/parfumelle-backend/internal/catalog"
	"github.com/parfumelle/parfumelle-backend/internal/discounts"
	"github.com/parfumelle/parfumelle-backend/internal/orders"
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/parfumelle/parfumelle-backend/pkg/logger"
	"github.com/parfumelle/parfumelle-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartAccessor interface {
	Items(ctx context.Context, sessionID string) (map[uuid.UUID]int, error)
	PromoCode(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

// Service converts a session cart into a persisted order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, sessionID string) (*models.Order, error)
}

type service struct {
	tx        txRunner
	catalog   catalog.Repository
	orders    orders.Repository
	discounts discounts.Repository
	cart      cartAccessor
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
	now       func() time.Time
}

// NewService builds a checkout service with the required dependencies.
// Metrics may be nil.
func NewService(
	tx txRunner,
	catalogRepo catalog.Repository,
	ordersRepo orders.Repository,
	discountsRepo discounts.Repository,
	cart cartAccessor,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if discountsRepo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart accessor required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		catalog:   catalogRepo,
		orders:    ordersRepo,
		discounts: discountsRepo,
		cart:      cart,
		logg:      logg,
		metrics:   checkoutMetrics,
		now:       time.Now,
	}, nil
}

// Checkout runs the whole conversion in one transaction: stock checks,
// guarded decrements, item creation, and discount application either all
// commit or all roll back, so a stock failure leaves nothing behind.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, sessionID string) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session required")
	}

	items, err := s.cart.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.metrics.IncFailure("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	promoCode, err := s.cart.PromoCode(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// stable iteration so deadlock-prone lock orders can't differ between
	// two concurrent checkouts of the same products
	productIDs := make([]uuid.UUID, 0, len(items))
	for id := range items {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	now := s.now()
	var order *models.Order

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)
		discountsRepo := s.discounts.WithTx(tx)

		created, err := ordersRepo.CreateOrder(ctx, &models.Order{
			ID:         uuid.New(),
			UserID:     userID,
			Status:     enums.OrderStatusPending,
			TotalPrice: decimal.Zero,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		productRules, err := discountsRepo.ListActiveByType(ctx, enums.DiscountTypeProduct, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product discounts")
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(productIDs))
		lineItems := make([]discounts.LineItem, 0, len(productIDs))

		for _, productID := range productIDs {
			qty := items[productID]
			if qty <= 0 {
				continue
			}

			product, err := catalogRepo.FindProductByID(ctx, productID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product no longer available")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if product.Stock < qty {
				return insufficientStock(product.Name)
			}

			ok, err := catalogRepo.DecrementStock(ctx, productID, qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return insufficientStock(product.Name)
			}

			rule := discounts.SelectProductDiscount(*product, productRules)
			unitPrice := discounts.DiscountPrice(product.Price, rule)
			subtotal := unitPrice.Mul(decimal.NewFromInt(int64(qty)))

			orderItems = append(orderItems, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   created.ID,
				ProductID: productID,
				Quantity:  qty,
				Price:     unitPrice,
			})
			lineItems = append(lineItems, discounts.LineItem{
				ProductID: productID,
				Quantity:  qty,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}
		if len(orderItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		if err := ordersRepo.CreateOrderItems(ctx, orderItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		orderRules, err := discountsRepo.ListActiveByType(ctx, enums.DiscountTypeOrder, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order discounts")
		}
		discountApplied, _ := discounts.SelectOrderDiscount(lineItems, orderRules)

		updates := map[string]any{}
		if promoCode != "" {
			itemsCount := 0
			for _, li := range lineItems {
				itemsCount += li.Quantity
			}
			// the use was consumed when the code was applied to the cart, so
			// the lookup must not re-check the usage cap
			promo, err := discountsRepo.FindRedeemedByCode(ctx, promoCode, now)
			if err == nil && discounts.PromoEligible(*promo, total, itemsCount) {
				discountApplied = discountApplied.Add(discounts.PromoImpact(*promo, total))
				updates["promo_code"] = promoCode
				created.PromoCode = &promoCode
			} else if err != nil && err != gorm.ErrRecordNotFound {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up promo code")
			}
		}

		finalTotal := total.Sub(discountApplied)
		updates["total_price"] = finalTotal
		updates["discount_applied"] = discountApplied
		if err := ordersRepo.UpdateOrder(ctx, created.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize order")
		}

		created.TotalPrice = finalTotal
		created.DiscountApplied = discountApplied
		created.Items = orderItems
		order = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			s.metrics.IncFailure(string(typed.Code()))
		} else {
			s.metrics.IncFailure("internal")
		}
		return nil, err
	}

	if err := s.cart.Clear(ctx, sessionID); err != nil {
		// the order is committed; a stale cart is recoverable, losing the
		// order is not
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "clearing cart after checkout failed")
	}

	s.metrics.IncOrderCreated(order.TotalPrice)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID,
		"total":    order.TotalPrice.String(),
	})
	s.logg.Info(ctx, "order placed")
	return order, nil
}

func insufficientStock(productName string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("not enough stock for %s", productName))
}
