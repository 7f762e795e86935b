package controllers

import (
	"net/http"

	"github.com/parfumelle/parfumelle-backend/api/responses"
	"github.com/parfumelle/parfumelle-backend/api/validators"
	catalogsvc "github.com/parfumelle/parfumelle-backend/internal/catalog"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/parfumelle/parfumelle-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProductList serves the filterable storefront catalog.
func ProductList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priced, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponses(priced))
	}
}

// ProductDetail serves one product with its discounted price.
func ProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		pricing, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(pricing))
	}
}

// BrandList serves all perfume houses.
func BrandList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]brandResponse, 0, len(brands))
		for _, b := range brands {
			out = append(out, brandResponse{ID: b.ID, Name: b.Name, Description: b.Description})
		}
		responses.WriteSuccess(w, out)
	}
}

// CategoryList serves all concentration classes.
func CategoryList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]categoryResponse, 0, len(categories))
		for _, c := range categories {
			out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
		}
		responses.WriteSuccess(w, out)
	}
}

func parseProductFilters(r *http.Request) (catalogsvc.ProductFilters, error) {
	brandIDs, err := validators.ParseQueryUUIDs(r, "brand")
	if err != nil {
		return catalogsvc.ProductFilters{}, err
	}
	categoryIDs, err := validators.ParseQueryUUIDs(r, "category")
	if err != nil {
		return catalogsvc.ProductFilters{}, err
	}
	rawVolumes, err := validators.ParseQueryInts(r, "volume")
	if err != nil {
		return catalogsvc.ProductFilters{}, err
	}
	volumes := make([]enums.ProductVolume, 0, len(rawVolumes))
	for _, v := range rawVolumes {
		volume := enums.ProductVolume(v)
		if !volume.IsValid() {
			return catalogsvc.ProductFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "volume must be 50, 100 or 200").
				WithDetails(map[string]any{"field": "volume", "value": v})
		}
		volumes = append(volumes, volume)
	}
	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return catalogsvc.ProductFilters{}, err
	}
	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return catalogsvc.ProductFilters{}, err
	}

	return catalogsvc.ProductFilters{
		BrandIDs:    brandIDs,
		CategoryIDs: categoryIDs,
		Volumes:     volumes,
		PriceMin:    priceMin,
		PriceMax:    priceMax,
	}, nil
}
