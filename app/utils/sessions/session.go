package sessions

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/aurelia-jewels/storefront/app/models"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "storefront-session"

	sessionIDKey = "sid"
	tokenKey     = "backendToken"
	userIDKey    = "userID"
	consentKey   = "cookieConsent"
)

type SessionStore interface {
	// GetSessionID returns a stable identifier for this browser session,
	// minting one on first touch. It keys the per-session cart engine.
	GetSessionID(w http.ResponseWriter, r *http.Request) (string, error)

	GetToken(r *http.Request) string
	SetToken(w http.ResponseWriter, r *http.Request, token string) error

	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error

	GetConsent(r *http.Request) *models.CookieConsent
	SetConsent(w http.ResponseWriter, r *http.Request, consent models.CookieConsent) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) (*sessions.Session, error) {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session, nil
}

func (c *CookieSessionStore) GetSessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return "", err
	}
	if sid, ok := session.Values[sessionIDKey].(string); ok && sid != "" {
		return sid, nil
	}

	sid := uuid.New().String()
	session.Values[sessionIDKey] = sid
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return sid, nil
}

func (c *CookieSessionStore) GetToken(r *http.Request) string {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return ""
	}
	token, ok := session.Values[tokenKey].(string)
	if !ok {
		return ""
	}
	return token
}

func (c *CookieSessionStore) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[tokenKey] = token
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return ""
	}
	userID, ok := session.Values[userIDKey].(string)
	if !ok {
		return ""
	}
	return userID
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetConsent(r *http.Request) *models.CookieConsent {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return nil
	}
	raw, ok := session.Values[consentKey].(string)
	if !ok || raw == "" {
		return nil
	}
	var consent models.CookieConsent
	if err := json.Unmarshal([]byte(raw), &consent); err != nil {
		log.Printf("SessionStore.GetConsent: failed to decode stored consent: %v", err)
		return nil
	}
	return &consent
}

func (c *CookieSessionStore) SetConsent(w http.ResponseWriter, r *http.Request, consent models.CookieConsent) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	raw, err := json.Marshal(consent)
	if err != nil {
		return err
	}
	session.Values[consentKey] = string(raw)
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
