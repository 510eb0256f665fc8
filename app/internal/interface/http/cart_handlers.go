package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int64 `json:"quantity" validate:"omitempty,gte=1"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gte=1"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := a.cartSvc.GetCart(r.Context(), ownerID(r.Context()))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := a.cartSvc.AddToCart(r.Context(), ownerID(r.Context()), req.ProductID, quantity)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCartItem(item))
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.cartSvc.UpdateQuantity(r.Context(), ownerID(r.Context()), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartItem(item))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	if err := a.cartSvc.RemoveItem(r.Context(), ownerID(r.Context()), chi.URLParam(r, "productID")); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := a.cartSvc.Clear(r.Context(), ownerID(r.Context())); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
