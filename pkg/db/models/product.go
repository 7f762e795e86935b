package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parfumelle/parfumelle-backend/pkg/enums"
)

// Product is a catalog listing. Price is the undiscounted shelf price; stock
// is decremented only by checkout and seller edits. Rows cascade away with
// their owning brand or category.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	BrandID     uuid.UUID           `gorm:"column:brand_id;type:uuid;not null"`
	Brand       *Brand              `gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE"`
	CategoryID  uuid.UUID           `gorm:"column:category_id;type:uuid;not null"`
	Category    *Category           `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Volume      enums.ProductVolume `gorm:"column:volume;not null"`
	Description string              `gorm:"column:description"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	ImageURL    *string             `gorm:"column:image_url"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
