package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/models"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/aurelia-jewels/storefront/app/utils/sessions"
	"github.com/unrolled/render"
)

// ConsentHandler covers the GDPR surface: cookie-consent preferences kept in
// the session, plus data export and account deletion passthroughs.
type ConsentHandler struct {
	store    sessions.SessionStore
	orders   *services.OrderService
	registry *services.EngineRegistry
	render   *render.Render
}

func NewConsentHandler(
	store sessions.SessionStore,
	orders *services.OrderService,
	registry *services.EngineRegistry,
	render *render.Render,
) *ConsentHandler {
	return &ConsentHandler{
		store:    store,
		orders:   orders,
		registry: registry,
		render:   render,
	}
}

func (h *ConsentHandler) GetConsent(w http.ResponseWriter, r *http.Request) {
	consent := h.store.GetConsent(r)
	if consent == nil {
		// No decision yet; the banner should show.
		_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"consent": nil})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"consent": consent})
}

func (h *ConsentHandler) SetConsent(w http.ResponseWriter, r *http.Request) {
	var prefs models.CookiePreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeBadRequest(h.render, w, "Invalid request body.")
		return
	}

	consent := models.NewCookieConsent(prefs)
	if err := h.store.SetConsent(w, r, consent); err != nil {
		log.Printf("ConsentHandler.SetConsent: failed to persist consent: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, helpers.ErrorResponse{
			Code:    "session_error",
			Message: "Failed to save your preferences. Please try again.",
		})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"consent": consent})
}

func (h *ConsentHandler) RequestDataExport(w http.ResponseWriter, r *http.Request) {
	token := helpers.TokenFromContext(r.Context())
	result, err := h.orders.RequestDataExport(r.Context(), token)
	if err != nil {
		log.Printf("ConsentHandler.RequestDataExport: %v", err)
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusAccepted, result)
}

// DeleteAccount removes the account upstream, then tears down everything
// local to the session: the cart engine and the cookie itself.
func (h *ConsentHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	token := helpers.TokenFromContext(r.Context())
	if err := h.orders.DeleteAccount(r.Context(), token); err != nil {
		log.Printf("ConsentHandler.DeleteAccount: %v", err)
		writeServiceError(h.render, w, err)
		return
	}

	h.registry.Drop(helpers.SessionIDFromContext(r.Context()))
	if err := h.store.ClearSession(w, r); err != nil {
		log.Printf("ConsentHandler.DeleteAccount: failed to clear session: %v", err)
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
