package handlers

import (
	"log"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	catalog *services.CatalogService
	render  *render.Render
}

func NewProductHandler(catalog *services.CatalogService, render *render.Render) *ProductHandler {
	return &ProductHandler{catalog: catalog, render: render}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		log.Printf("ProductHandler.ListProducts: %v", err)
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		log.Printf("ProductHandler.GetProduct: product %s: %v", productID, err)
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	token := helpers.TokenFromContext(r.Context())
	favorites, err := h.catalog.ListFavorites(r.Context(), token)
	if err != nil {
		log.Printf("ProductHandler.ListFavorites: %v", err)
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, favorites)
}

func (h *ProductHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	token := helpers.TokenFromContext(r.Context())
	if err := h.catalog.AddFavorite(r.Context(), token, productID); err != nil {
		log.Printf("ProductHandler.AddFavorite: product %s: %v", productID, err)
		writeServiceError(h.render, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	token := helpers.TokenFromContext(r.Context())
	if err := h.catalog.RemoveFavorite(r.Context(), token, productID); err != nil {
		log.Printf("ProductHandler.RemoveFavorite: product %s: %v", productID, err)
		writeServiceError(h.render, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
