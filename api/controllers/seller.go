package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/parfumelle/parfumelle-backend/api/responses"
	"github.com/parfumelle/parfumelle-backend/api/validators"
	catalogsvc "github.com/parfumelle/parfumelle-backend/internal/catalog"
	discountsvc "github.com/parfumelle/parfumelle-backend/internal/discounts"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/parfumelle/parfumelle-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	BrandID     string  `json:"brand_id" validate:"required,uuid"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	VolumeML    int     `json:"volume_ml" validate:"required"`
	Description string  `json:"description,omitempty"`
	Price       string  `json:"price" validate:"required"`
	Stock       int     `json:"stock" validate:"min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (req createProductRequest) toInput() (catalogsvc.CreateProductInput, error) {
	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid brand id")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	return catalogsvc.CreateProductInput{
		Name:        strings.TrimSpace(req.Name),
		BrandID:     brandID,
		CategoryID:  categoryID,
		Volume:      enums.ProductVolume(req.VolumeML),
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}, nil
}

// SellerCreateProduct adds a listing to the catalog.
func SellerCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(discountsvc.ProductPricing{
			Product:         *product,
			DiscountedPrice: product.Price,
		}))
	}
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	BrandID     *string `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	CategoryID  *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	VolumeML    *int    `json:"volume_ml,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *string `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (req updateProductRequest) toInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if req.BrandID != nil {
		brandID, err := uuid.Parse(*req.BrandID)
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid brand id")
		}
		input.BrandID = &brandID
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &categoryID
	}
	if req.VolumeML != nil {
		volume := enums.ProductVolume(*req.VolumeML)
		input.Volume = &volume
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*req.Price))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}
	return input, nil
}

// SellerUpdateProduct applies partial edits to a listing.
func SellerUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(discountsvc.ProductPricing{
			Product:         *product,
			DiscountedPrice: product.Price,
		}))
	}
}

type createBrandRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description,omitempty"`
}

// SellerCreateBrand registers a perfume house.
func SellerCreateBrand(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBrandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brand, err := svc.CreateBrand(r.Context(), payload.Name, payload.Description)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, brandResponse{
			ID:          brand.ID,
			Name:        brand.Name,
			Description: brand.Description,
		})
	}
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// SellerCreateCategory registers a concentration class.
func SellerCreateCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name})
	}
}

type createDiscountRequest struct {
	Code          *string    `json:"code,omitempty" validate:"omitempty,min=1,max=64"`
	DiscountType  string     `json:"discount_type" validate:"required,oneof=product order promo"`
	ValueType     string     `json:"value_type" validate:"required,oneof=percentage fixed"`
	Value         string     `json:"value" validate:"required"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	ProductIDs    []string   `json:"product_ids,omitempty" validate:"omitempty,dive,uuid"`
	CategoryIDs   []string   `json:"category_ids,omitempty" validate:"omitempty,dive,uuid"`
	BrandIDs      []string   `json:"brand_ids,omitempty" validate:"omitempty,dive,uuid"`
	MinOrderValue *string    `json:"min_order_value,omitempty"`
	MinItems      *int       `json:"min_items,omitempty" validate:"omitempty,min=1"`
	MaxUses       *int       `json:"max_uses,omitempty" validate:"omitempty,min=1"`
}

func (req createDiscountRequest) toInput() (discountsvc.CreateDiscountInput, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(req.Value))
	if err != nil {
		return discountsvc.CreateDiscountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid value")
	}

	input := discountsvc.CreateDiscountInput{
		Code:         req.Code,
		DiscountType: enums.DiscountType(req.DiscountType),
		ValueType:    enums.DiscountValueType(req.ValueType),
		Value:        value,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MinItems:     req.MinItems,
		MaxUses:      req.MaxUses,
	}

	if req.MinOrderValue != nil {
		minOrder, err := decimal.NewFromString(strings.TrimSpace(*req.MinOrderValue))
		if err != nil {
			return discountsvc.CreateDiscountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid min order value")
		}
		input.MinOrderValue = &minOrder
	}

	if input.ProductIDs, err = parseUUIDs(req.ProductIDs, "product_ids"); err != nil {
		return discountsvc.CreateDiscountInput{}, err
	}
	if input.CategoryIDs, err = parseUUIDs(req.CategoryIDs, "category_ids"); err != nil {
		return discountsvc.CreateDiscountInput{}, err
	}
	if input.BrandIDs, err = parseUUIDs(req.BrandIDs, "brand_ids"); err != nil {
		return discountsvc.CreateDiscountInput{}, err
	}

	return input, nil
}

func parseUUIDs(raw []string, field string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid uuid").
				WithDetails(map[string]any{"field": field, "value": value})
		}
		out = append(out, id)
	}
	return out, nil
}

// SellerCreateDiscount registers a pricing rule.
func SellerCreateDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.CreateDiscount(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newDiscountResponse(discount))
	}
}

// SellerListDiscounts serves every pricing rule, newest first.
func SellerListDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules, err := svc.ListDiscounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDiscountResponses(rules))
	}
}
