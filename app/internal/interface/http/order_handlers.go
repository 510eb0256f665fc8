package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
	"example.com/localspark/app/internal/infra/metrics"
)

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domproduct.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, domorder.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domorder.ErrInvalidPayment):
		return "invalid_payment"
	default:
		return "error"
	}
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	user := getAuthUser(r.Context())
	method := domorder.PaymentMethod(strings.ToUpper(req.PaymentMethod))
	order, err := a.orderSvc.Checkout(r.Context(), user.UserID, method)
	if err != nil {
		metrics.RecordCheckout(checkoutOutcome(err), 0)
		a.handleDomainError(w, r, err)
		return
	}
	metrics.RecordCheckout(checkoutOutcome(nil), order.TotalAmount)
	writeJSON(w, http.StatusCreated, mapOrder(order))
}

func (a *API) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	orders, err := a.orderSvc.ListMine(r.Context(), user.UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapOrders(orders)})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.List(r.Context())
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapOrders(orders)})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.orderSvc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	status := domorder.Status(strings.ToUpper(req.Status))
	order, err := a.orderSvc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}
