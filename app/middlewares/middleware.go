package middlewares

import (
	"log"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/utils/sessions"
	"github.com/gorilla/csrf"
)

// SessionContextMiddleware resolves the browser session and puts its
// identifier and principal credential on the request context. Every request
// gets a session ID, authenticated or not.
func SessionContextMiddleware(store sessions.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := store.GetSessionID(w, r)
			if err != nil {
				log.Printf("SessionContextMiddleware: failed to resolve session ID: %v", err)
				http.Error(w, "session error", http.StatusInternalServerError)
				return
			}

			token := store.GetToken(r)
			userID := store.GetUserID(r)
			next.ServeHTTP(w, helpers.WithSession(r, sessionID, token, userID))
		})
	}
}

// CSRFMiddleware protects mutating routes. The token is exposed in a
// response header so the browser can echo it back.
func CSRFMiddleware(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.RequestHeader("X-CSRF-Token"),
	)
	return func(next http.Handler) http.Handler {
		return protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-CSRF-Token", csrf.Token(r))
			next.ServeHTTP(w, r)
		}))
	}
}
