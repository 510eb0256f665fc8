package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domproduct "example.com/localspark/app/internal/domain/product"
	productuc "example.com/localspark/app/internal/usecase/product"
)

// parseProductFilter reads the storefront query parameters shared by the
// public and admin listings.
func parseProductFilter(r *http.Request) (domproduct.ListFilter, page, error) {
	q := r.URL.Query()
	filter := domproduct.ListFilter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Search:   q.Get("search"),
	}
	if filter.Search == "" {
		filter.Search = q.Get("q")
	}

	p, err := parsePage(r)
	if err != nil {
		return filter, p, err
	}
	filter.Limit, filter.Offset = p.Limit, p.Offset

	if filter.MinPrice, err = parseFloatQuery(r, "min_price"); err != nil {
		return filter, p, err
	}
	if filter.MaxPrice, err = parseFloatQuery(r, "max_price"); err != nil {
		return filter, p, err
	}
	if s := q.Get("sort"); s != "" {
		filter.Sort = domproduct.SortOrder(strings.ToLower(s))
		if !filter.Sort.IsValid() {
			return filter, p, fmt.Errorf("invalid sort %q", s)
		}
	}
	return filter, p, nil
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, p, err := parseProductFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	products, total, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeList(w, mapProducts(products), total, p)
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.productSvc.GetActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (a *API) handleListProductsAdmin(w http.ResponseWriter, r *http.Request) {
	filter, p, err := parseProductFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	filter.IncludeInactive = true
	if status := r.URL.Query().Get("only_active"); status == "1" || status == "true" {
		filter.IncludeInactive = false
	}

	products, total, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeList(w, mapProducts(products), total, p)
}

type createProductRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Description   string   `json:"description"`
	Category      string   `json:"category" validate:"max=100"`
	Price         float64  `json:"price" validate:"gt=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,gt=0"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
	Brand         string   `json:"brand" validate:"max=100"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int64    `json:"review_count" validate:"gte=0"`
	StockQuantity int64    `json:"stock_quantity" validate:"gte=0"`
	SKU           string   `json:"sku" validate:"max=64"`
	Tags          []string `json:"tags"`
}

type updateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,max=255"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category" validate:"omitempty,max=100"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,gt=0"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	Brand         *string  `json:"brand" validate:"omitempty,max=100"`
	StockQuantity *int64   `json:"stock_quantity" validate:"omitempty,gte=0"`
	SKU           *string  `json:"sku" validate:"omitempty,max=64"`
	Tags          []string `json:"tags"`
	IsActive      *bool    `json:"is_active"`
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.Create(r.Context(), productuc.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURL:      req.ImageURL,
		Brand:         req.Brand,
		Rating:        req.Rating,
		ReviewCount:   req.ReviewCount,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		Tags:          req.Tags,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.productSvc.Update(r.Context(), productuc.UpdateInput{
		ID:            chi.URLParam(r, "id"),
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURL:      req.ImageURL,
		Brand:         req.Brand,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		Tags:          req.Tags,
		IsActive:      req.IsActive,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := a.productSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := a.categorySvc.Facets(r.Context())
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapFacets(facets))
}
