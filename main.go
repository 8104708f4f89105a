package main

import (
	"encoding/base64"
	"log"
	"net/http"
	"os"

	"github.com/aurelia-jewels/storefront/app/cmd"
	"github.com/aurelia-jewels/storefront/app/configs"
	"github.com/aurelia-jewels/storefront/app/routes"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/aurelia-jewels/storefront/app/utils/sessions"
	"github.com/midtrans/midtrans-go"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if env.BackendBaseURL == "" {
		log.Fatalf("BACKEND_BASE_URL is empty! Please check your .env file.")
	}

	endpoints, err := configs.LoadEndpoints(env.EndpointsFile)
	if err != nil {
		log.Fatalf("Failed to load endpoint configuration: %v", err)
	}

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatalf("Failed to load session keys (run `storefront generate-keys`): %v", err)
	}
	store := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)
	log.Println("✅ Session store initialized.")

	api := services.NewRestBackendClient(env.BackendBaseURL, endpoints)
	registry := services.NewEngineRegistry(api)
	catalog := services.NewCatalogService(api)
	orders := services.NewOrderService(api)

	var payments *services.PaymentService
	if env.MIDTRANS_SERVER_KEY != "" {
		midtransEnv := midtrans.Sandbox
		if env.APP_ENV == "production" {
			midtransEnv = midtrans.Production
		}
		payments = services.NewPaymentService(env.MIDTRANS_SERVER_KEY, midtransEnv)
		log.Println("✅ Midtrans Snap client initialized.")
	} else {
		log.Println("Warning: MIDTRANS_SERVER_KEY not set, gateway payments disabled.")
	}

	var csrfKey []byte
	if env.CSRFKey != "" {
		csrfKey, err = base64.URLEncoding.DecodeString(env.CSRFKey)
		if err != nil {
			log.Fatalf("Failed to decode CSRF_KEY: %v", err)
		}
	}

	router := routes.NewRouter(routes.RouterConfig{
		Store:    store,
		API:      api,
		Registry: registry,
		Catalog:  catalog,
		Orders:   orders,
		Payments: payments,
		CSRFKey:  csrfKey,
		Secure:   env.APP_ENV == "production",
	})

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Storefront gateway starting on %s (backend %s)", server.Addr, env.BackendBaseURL)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}

}
