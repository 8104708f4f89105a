package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/models"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/aurelia-jewels/storefront/app/utils/format"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// CartHandler exposes the session's cart engine over JSON. Every response
// carries the settled cart snapshot plus any notices the engine produced,
// so the UI never has to guess an operation's outcome from the status code.
type CartHandler struct {
	registry *services.EngineRegistry
	render   *render.Render
}

func NewCartHandler(registry *services.EngineRegistry, render *render.Render) *CartHandler {
	return &CartHandler{registry: registry, render: render}
}

type cartResponse struct {
	Cart         models.CartState `json:"cart"`
	TotalDisplay string           `json:"total_display"`
	Notices      []models.Notice  `json:"notices"`
}

func (h *CartHandler) engine(r *http.Request) (*services.CartSyncEngine, *services.BufferNotifier) {
	engine, notifier := h.registry.For(helpers.SessionIDFromContext(r.Context()))
	engine.SetToken(helpers.TokenFromContext(r.Context()))
	return engine, notifier
}

func (h *CartHandler) respond(w http.ResponseWriter, state models.CartState, notifier *services.BufferNotifier) {
	_ = h.render.JSON(w, http.StatusOK, cartResponse{
		Cart:         state,
		TotalDisplay: format.FormatUSD(state.Total),
		Notices:      notifier.Drain(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	engine, notifier := h.engine(r)
	h.respond(w, engine.State(), notifier)
}

func (h *CartHandler) RefreshCart(w http.ResponseWriter, r *http.Request) {
	engine, notifier := h.engine(r)
	h.respond(w, engine.Reload(r.Context()), notifier)
}

type addLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(h.render, w, "Invalid request body.")
		return
	}
	if req.ProductID == "" || req.Quantity < 1 {
		writeBadRequest(h.render, w, "product_id and a positive quantity are required.")
		return
	}

	engine, notifier := h.engine(r)
	h.respond(w, engine.AddLine(r.Context(), req.ProductID, req.Quantity), notifier)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineID"]
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(h.render, w, "Invalid request body.")
		return
	}

	engine, notifier := h.engine(r)
	h.respond(w, engine.UpdateQuantity(r.Context(), lineID, req.Quantity), notifier)
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineID"]
	engine, notifier := h.engine(r)
	h.respond(w, engine.RemoveLine(r.Context(), lineID), notifier)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	engine, notifier := h.engine(r)
	h.respond(w, engine.Clear(r.Context()), notifier)
}
