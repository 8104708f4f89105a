package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/aurelia-jewels/storefront/app/utils/sessions"
	"github.com/unrolled/render"
)

// SessionHandler exchanges the token produced by the backend's auth flow for
// a storefront session, and tears sessions down on logout.
type SessionHandler struct {
	store    sessions.SessionStore
	api      services.BackendClient
	registry *services.EngineRegistry
	render   *render.Render
}

func NewSessionHandler(
	store sessions.SessionStore,
	api services.BackendClient,
	registry *services.EngineRegistry,
	render *render.Render,
) *SessionHandler {
	return &SessionHandler{
		store:    store,
		api:      api,
		registry: registry,
		render:   render,
	}
}

type loginRequest struct {
	Token string `json:"token"`
}

// Login verifies the token against the backend's profile endpoint before
// trusting it, then installs it on the session and warms the cart engine.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeBadRequest(h.render, w, "A token is required.")
		return
	}

	profile, err := h.api.Profile(r.Context(), req.Token)
	if err != nil {
		log.Printf("SessionHandler.Login: token verification failed: %v", err)
		writeServiceError(h.render, w, err)
		return
	}

	if err := h.store.SetToken(w, r, req.Token); err != nil {
		log.Printf("SessionHandler.Login: failed to store token: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, helpers.ErrorResponse{
			Code:    "session_error",
			Message: "Failed to establish session. Please try again.",
		})
		return
	}
	if err := h.store.SetUserID(w, r, profile.ID); err != nil {
		log.Printf("SessionHandler.Login: failed to store user ID: %v", err)
	}

	engine, _ := h.registry.For(helpers.SessionIDFromContext(r.Context()))
	engine.SetToken(req.Token)
	engine.Reload(r.Context())

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          profile,
	})
}

func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	token := helpers.TokenFromContext(r.Context())
	if token == "" {
		_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	profile, err := h.api.Profile(r.Context(), token)
	if err != nil {
		// A dead token reads as signed-out, not as an error page.
		log.Printf("SessionHandler.Status: profile check failed: %v", err)
		_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          profile,
	})
}

// Logout drops the cart engine and expires the cookie. The upstream token
// itself is revoked by the backend's own logout flow.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.registry.Drop(helpers.SessionIDFromContext(r.Context()))
	if err := h.store.ClearSession(w, r); err != nil {
		log.Printf("SessionHandler.Logout: failed to clear session: %v", err)
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
}
