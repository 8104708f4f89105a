package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/models/other"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/unrolled/render"
)

type CheckoutHandler struct {
	orders   *services.OrderService
	payments *services.PaymentService
	registry *services.EngineRegistry
	render   *render.Render
}

func NewCheckoutHandler(
	orders *services.OrderService,
	payments *services.PaymentService,
	registry *services.EngineRegistry,
	render *render.Render,
) *CheckoutHandler {
	return &CheckoutHandler{
		orders:   orders,
		payments: payments,
		registry: registry,
		render:   render,
	}
}

type checkoutResult struct {
	Order        other.OrderSummary        `json:"order"`
	ClientSecret string                    `json:"client_secret"`
	Snap         *services.SnapTransaction `json:"snap,omitempty"`
}

// Checkout validates shipping info, creates the order upstream and attaches
// the processor handles the browser needs to collect payment. The cart
// engine is reloaded afterwards so the session reflects whatever the
// backend did to the cart during order creation.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var shipping services.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&shipping); err != nil {
		writeBadRequest(h.render, w, "Invalid request body.")
		return
	}

	token := helpers.TokenFromContext(r.Context())
	engine, _ := h.registry.For(helpers.SessionIDFromContext(r.Context()))
	engine.SetToken(token)

	resp, err := h.orders.Checkout(r.Context(), token, engine, shipping)
	if err != nil {
		log.Printf("CheckoutHandler.Checkout: %v", err)
		writeServiceError(h.render, w, err)
		return
	}

	result := checkoutResult{
		Order:        resp.Order,
		ClientSecret: resp.ClientSecret,
	}

	if h.payments != nil {
		snapTx, err := h.payments.CreateSnapTransaction(resp.Order, shipping.Name, shipping.Email)
		if err != nil {
			// The upstream payment intent still works; the gateway
			// transaction is an extra payment option.
			log.Printf("CheckoutHandler.Checkout: snap transaction failed for order %s: %v", resp.Order.ID, err)
		} else {
			result.Snap = snapTx
		}
	}

	engine.Reload(r.Context())
	_ = h.render.JSON(w, http.StatusCreated, result)
}
