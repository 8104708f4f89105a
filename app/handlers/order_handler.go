package handlers

import (
	"log"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	orders *services.OrderService
	render *render.Render
}

func NewOrderHandler(orders *services.OrderService, render *render.Render) *OrderHandler {
	return &OrderHandler{orders: orders, render: render}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	token := helpers.TokenFromContext(r.Context())
	orders, err := h.orders.ListOrders(r.Context(), token)
	if err != nil {
		log.Printf("OrderHandler.ListOrders: %v", err)
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderID"]
	token := helpers.TokenFromContext(r.Context())
	result, err := h.orders.RetryPayment(r.Context(), token, orderID)
	if err != nil {
		log.Printf("OrderHandler.RetryPayment: order %s: %v", orderID, err)
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, result)
}
