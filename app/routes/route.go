package routes

import (
	"net/http"

	"github.com/aurelia-jewels/storefront/app/handlers"
	"github.com/aurelia-jewels/storefront/app/middlewares"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/aurelia-jewels/storefront/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type RouterConfig struct {
	Store    sessions.SessionStore
	API      services.BackendClient
	Registry *services.EngineRegistry
	Catalog  *services.CatalogService
	Orders   *services.OrderService
	Payments *services.PaymentService
	CSRFKey  []byte
	Secure   bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	rnd := render.New()

	cartHandler := handlers.NewCartHandler(cfg.Registry, rnd)
	productHandler := handlers.NewProductHandler(cfg.Catalog, rnd)
	orderHandler := handlers.NewOrderHandler(cfg.Orders, rnd)
	checkoutHandler := handlers.NewCheckoutHandler(cfg.Orders, cfg.Payments, cfg.Registry, rnd)
	consentHandler := handlers.NewConsentHandler(cfg.Store, cfg.Orders, cfg.Registry, rnd)
	sessionHandler := handlers.NewSessionHandler(cfg.Store, cfg.API, cfg.Registry, rnd)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/session", sessionHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/session", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/session", sessionHandler.Logout).Methods(http.MethodDelete)

	api.HandleFunc("/cart", cartHandler.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", cartHandler.ClearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/refresh", cartHandler.RefreshCart).Methods(http.MethodPost)
	api.HandleFunc("/cart/items", cartHandler.AddLine).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{lineID}", cartHandler.UpdateLine).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{lineID}", cartHandler.RemoveLine).Methods(http.MethodDelete)

	api.HandleFunc("/products", productHandler.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{productID}", productHandler.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{productID}/favorite", productHandler.AddFavorite).Methods(http.MethodPut)
	api.HandleFunc("/products/{productID}/favorite", productHandler.RemoveFavorite).Methods(http.MethodDelete)
	api.HandleFunc("/favorites", productHandler.ListFavorites).Methods(http.MethodGet)

	api.HandleFunc("/orders", orderHandler.ListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID}/payment-retry", orderHandler.RetryPayment).Methods(http.MethodPost)
	api.HandleFunc("/checkout", checkoutHandler.Checkout).Methods(http.MethodPost)

	api.HandleFunc("/consent", consentHandler.GetConsent).Methods(http.MethodGet)
	api.HandleFunc("/consent", consentHandler.SetConsent).Methods(http.MethodPut)
	api.HandleFunc("/account/data-export", consentHandler.RequestDataExport).Methods(http.MethodPost)
	api.HandleFunc("/account", consentHandler.DeleteAccount).Methods(http.MethodDelete)

	var handler http.Handler = router
	if len(cfg.CSRFKey) > 0 {
		handler = middlewares.CSRFMiddleware(cfg.CSRFKey, cfg.Secure)(handler)
	}
	handler = middlewares.SessionContextMiddleware(cfg.Store)(handler)
	return handler
}
