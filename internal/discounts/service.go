package discounts

import (
	"context"
	"fmt"
	"time"

	"github.com/parfumelle/parfumelle-backend/pkg/db"
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes discount evaluation and management.
type Service interface {
	PriceProduct(ctx context.Context, product models.Product) (ProductPricing, error)
	PriceProducts(ctx context.Context, products []models.Product) ([]ProductPricing, error)
	OrderDiscountImpact(ctx context.Context, items []LineItem) (decimal.Decimal, error)
	ValidatePromoCode(ctx context.Context, code string, total decimal.Decimal, itemsCount int) (*models.Discount, error)
	RedeemedPromo(ctx context.Context, code string) (*models.Discount, error)
	RedeemPromoCode(ctx context.Context, tx *gorm.DB, code string, total decimal.Decimal, itemsCount int) (PromoResult, error)
	CreateDiscount(ctx context.Context, input CreateDiscountInput) (*models.Discount, error)
	ListDiscounts(ctx context.Context) ([]models.Discount, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a discount service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discounts")
	}
	return out, nil
}

func (s *service) PriceProduct(ctx context.Context, product models.Product) (ProductPricing, error) {
	priced, err := s.PriceProducts(ctx, []models.Product{product})
	if err != nil {
		return ProductPricing{}, err
	}
	return priced[0], nil
}

func (s *service) PriceProducts(ctx context.Context, products []models.Product) ([]ProductPricing, error) {
	active, err := s.repo.ListActiveByType(ctx, enums.DiscountTypeProduct, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product discounts")
	}

	out := make([]ProductPricing, 0, len(products))
	for _, p := range products {
		applied := SelectProductDiscount(p, active)
		out = append(out, ProductPricing{
			Product:         p,
			DiscountedPrice: DiscountPrice(p.Price, applied),
			Applied:         applied,
		})
	}
	return out, nil
}

func (s *service) OrderDiscountImpact(ctx context.Context, items []LineItem) (decimal.Decimal, error) {
	active, err := s.repo.ListActiveByType(ctx, enums.DiscountTypeOrder, s.now())
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order discounts")
	}
	impact, _ := SelectOrderDiscount(items, active)
	return impact, nil
}

func (s *service) ValidatePromoCode(ctx context.Context, code string, total decimal.Decimal, itemsCount int) (*models.Discount, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code required")
	}

	discount, err := s.repo.FindActiveByCode(ctx, code, s.now())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found or inactive")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up promo code")
	}

	if !PromoEligible(*discount, total, itemsCount) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart does not meet promo code requirements")
	}
	return discount, nil
}

// RedeemedPromo resolves a code whose use was already consumed by the
// caller's session. The usage cap is deliberately not re-checked; the date
// window still is.
func (s *service) RedeemedPromo(ctx context.Context, code string) (*models.Discount, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code required")
	}

	discount, err := s.repo.FindRedeemedByCode(ctx, code, s.now())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found or inactive")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up promo code")
	}
	return discount, nil
}

// RedeemPromoCode consumes one use of the promo code. When tx is non-nil the
// lookup and guarded increment run inside it, so a failed checkout releases
// the use along with everything else.
func (s *service) RedeemPromoCode(ctx context.Context, tx *gorm.DB, code string, total decimal.Decimal, itemsCount int) (PromoResult, error) {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	discount, err := repo.FindActiveByCode(ctx, code, s.now())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return PromoResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found or inactive")
		}
		return PromoResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up promo code")
	}

	if !PromoEligible(*discount, total, itemsCount) {
		return PromoResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart does not meet promo code requirements")
	}

	ok, err := repo.IncrementUses(ctx, discount.ID)
	if err != nil {
		return PromoResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment promo uses")
	}
	if !ok {
		return PromoResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "promo code has been fully redeemed")
	}

	discount.Uses++
	return PromoResult{
		Discount: discount,
		Impact:   PromoImpact(*discount, total),
	}, nil
}

func (s *service) CreateDiscount(ctx context.Context, input CreateDiscountInput) (*models.Discount, error) {
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if !input.ValueType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid value type")
	}
	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.DiscountType == enums.DiscountTypePromo && (input.Code == nil || *input.Code == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo discounts require a code")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	if input.MaxUses != nil && *input.MaxUses <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max uses must be positive")
	}

	discount := &models.Discount{
		ID:            uuid.New(),
		Code:          input.Code,
		DiscountType:  input.DiscountType,
		ValueType:     input.ValueType,
		Value:         input.Value,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		MinOrderValue: input.MinOrderValue,
		MinItems:      input.MinItems,
		MaxUses:       input.MaxUses,
	}
	for _, id := range input.ProductIDs {
		discount.Products = append(discount.Products, models.Product{ID: id})
	}
	for _, id := range input.CategoryIDs {
		discount.Categories = append(discount.Categories, models.Category{ID: id})
	}
	for _, id := range input.BrandIDs {
		discount.Brands = append(discount.Brands, models.Brand{ID: id})
	}

	created, err := s.repo.Create(ctx, discount)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount")
	}
	return created, nil
}
