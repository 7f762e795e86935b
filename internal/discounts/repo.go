package discounts

import (
	"context"
	"time"

	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes discount persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, discount *models.Discount) (*models.Discount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	List(ctx context.Context) ([]models.Discount, error)
	ListActiveByType(ctx context.Context, discountType enums.DiscountType, now time.Time) ([]models.Discount, error)
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Discount, error)
	FindRedeemedByCode(ctx context.Context, code string, now time.Time) (*models.Discount, error)
	IncrementUses(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExhaustedPromosBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a discounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return nil, err
	}
	return discount, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).
		Preload("Products").
		Preload("Categories").
		Preload("Brands").
		Where("id = ?", id).
		First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *repository) List(ctx context.Context) ([]models.Discount, error) {
	var out []models.Discount
	err := r.db.WithContext(ctx).
		Preload("Products").
		Preload("Categories").
		Preload("Brands").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func activeScope(db *gorm.DB, now time.Time) *gorm.DB {
	return db.
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Where("max_uses IS NULL OR uses < max_uses")
}

func (r *repository) ListActiveByType(ctx context.Context, discountType enums.DiscountType, now time.Time) ([]models.Discount, error) {
	var out []models.Discount
	q := r.db.WithContext(ctx).
		Preload("Products").
		Preload("Categories").
		Preload("Brands").
		Where("discount_type = ?", discountType)
	err := activeScope(q, now).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Discount, error) {
	var matches []models.Discount
	q := r.db.WithContext(ctx).
		Where("discount_type = ?", enums.DiscountTypePromo).
		Where("code = ?", code)
	if err := activeScope(q, now).Limit(2).Find(&matches).Error; err != nil {
		return nil, err
	}
	// a duplicated code is a catalog configuration error, treat as no match
	if len(matches) != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &matches[0], nil
}

// FindRedeemedByCode resolves a promo whose use was already consumed by the
// caller's session. The date window still applies but the usage cap does
// not, so the session that spent the final use keeps its discount.
func (r *repository) FindRedeemedByCode(ctx context.Context, code string, now time.Time) (*models.Discount, error) {
	var matches []models.Discount
	err := r.db.WithContext(ctx).
		Where("discount_type = ?", enums.DiscountTypePromo).
		Where("code = ?", code).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Limit(2).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &matches[0], nil
}

// IncrementUses bumps the usage counter guarded by max_uses so concurrent
// redemptions can never push uses past the cap. Returns false when the cap
// was already reached.
func (r *repository) IncrementUses(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE discounts
		SET uses = uses + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND (max_uses IS NULL OR uses < max_uses)
	`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("end_date IS NOT NULL AND end_date < ?", cutoff).
		Delete(&models.Discount{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteExhaustedPromosBefore removes promo rules whose uses hit the cap and
// that have not been touched since the cutoff.
func (r *repository) DeleteExhaustedPromosBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("discount_type = ?", enums.DiscountTypePromo).
		Where("max_uses IS NOT NULL AND uses >= max_uses").
		Where("updated_at < ?", cutoff).
		Delete(&models.Discount{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
