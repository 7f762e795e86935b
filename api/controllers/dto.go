package controllers

import (
	"time"

	"github.com/parfumelle/parfumelle-backend/internal/cart"
	"github.com/parfumelle/parfumelle-backend/internal/discounts"
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type brandResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type categoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type productResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Brand         *brandResponse    `json:"brand,omitempty"`
	Category      *categoryResponse `json:"category,omitempty"`
	VolumeML      int               `json:"volume_ml"`
	Description   string            `json:"description,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	DiscountPrice decimal.Decimal   `json:"discount_price"`
	Stock         int               `json:"stock"`
	ImageURL      *string           `json:"image_url,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func newProductResponse(pricing discounts.ProductPricing) productResponse {
	p := pricing.Product
	resp := productResponse{
		ID:            p.ID,
		Name:          p.Name,
		VolumeML:      int(p.Volume),
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: pricing.DiscountedPrice,
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
	}
	if p.Brand != nil {
		resp.Brand = &brandResponse{ID: p.Brand.ID, Name: p.Brand.Name, Description: p.Brand.Description}
	}
	if p.Category != nil {
		resp.Category = &categoryResponse{ID: p.Category.ID, Name: p.Category.Name}
	}
	return resp
}

func newProductResponses(priced []discounts.ProductPricing) []productResponse {
	out := make([]productResponse, 0, len(priced))
	for _, pricing := range priced {
		out = append(out, newProductResponse(pricing))
	}
	return out
}

type cartLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Adjusted  bool            `json:"adjusted,omitempty"`
}

type cartResponse struct {
	Items         []cartLineResponse `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	OrderDiscount decimal.Decimal    `json:"order_discount"`
	PromoCode     string             `json:"promo_code,omitempty"`
	PromoDiscount decimal.Decimal    `json:"promo_discount"`
	FinalTotal    decimal.Decimal    `json:"final_total"`
}

func newCartResponse(view cart.View) cartResponse {
	items := make([]cartLineResponse, 0, len(view.Lines))
	for _, line := range view.Lines {
		items = append(items, cartLineResponse{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
			Adjusted:  line.Adjusted,
		})
	}
	return cartResponse{
		Items:         items,
		Total:         view.Total,
		OrderDiscount: view.OrderDiscount,
		PromoCode:     view.PromoCode,
		PromoDiscount: view.PromoDiscount,
		FinalTotal:    view.FinalTotal,
	}
}

type orderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Status          string              `json:"status"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	DiscountApplied decimal.Decimal     `json:"discount_applied"`
	PromoCode       *string             `json:"promo_code,omitempty"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		line := orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
		}
		items = append(items, line)
	}
	return orderResponse{
		ID:              order.ID,
		Status:          string(order.Status),
		TotalPrice:      order.TotalPrice,
		DiscountApplied: order.DiscountApplied,
		PromoCode:       order.PromoCode,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}

func newOrderResponses(orders []models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderResponse(&orders[i]))
	}
	return out
}

type discountResponse struct {
	ID            uuid.UUID        `json:"id"`
	Code          *string          `json:"code,omitempty"`
	DiscountType  string           `json:"discount_type"`
	ValueType     string           `json:"value_type"`
	Value         decimal.Decimal  `json:"value"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	ProductIDs    []uuid.UUID      `json:"product_ids,omitempty"`
	CategoryIDs   []uuid.UUID      `json:"category_ids,omitempty"`
	BrandIDs      []uuid.UUID      `json:"brand_ids,omitempty"`
	MinOrderValue *decimal.Decimal `json:"min_order_value,omitempty"`
	MinItems      *int             `json:"min_items,omitempty"`
	MaxUses       *int             `json:"max_uses,omitempty"`
	Uses          int              `json:"uses"`
	CreatedAt     time.Time        `json:"created_at"`
}

func newDiscountResponse(d *models.Discount) discountResponse {
	resp := discountResponse{
		ID:            d.ID,
		Code:          d.Code,
		DiscountType:  string(d.DiscountType),
		ValueType:     string(d.ValueType),
		Value:         d.Value,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		MinOrderValue: d.MinOrderValue,
		MinItems:      d.MinItems,
		MaxUses:       d.MaxUses,
		Uses:          d.Uses,
		CreatedAt:     d.CreatedAt,
	}
	for _, p := range d.Products {
		resp.ProductIDs = append(resp.ProductIDs, p.ID)
	}
	for _, c := range d.Categories {
		resp.CategoryIDs = append(resp.CategoryIDs, c.ID)
	}
	for _, b := range d.Brands {
		resp.BrandIDs = append(resp.BrandIDs, b.ID)
	}
	return resp
}

func newDiscountResponses(rules []models.Discount) []discountResponse {
	out := make([]discountResponse, 0, len(rules))
	for i := range rules {
		out = append(out, newDiscountResponse(&rules[i]))
	}
	return out
}
