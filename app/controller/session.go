package controller

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// SessionHeader lets non-browser clients pick their cart without cookies.
const SessionHeader = "X-Cart-Session"

// sessionCookieMaxAge keeps a cart for 30 days of inactivity.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// SessionResolver finds the cart session of a request, minting one when absent.
type SessionResolver struct {
	cookieName string
	secure     bool
}

// NewSessionResolver creates a SessionResolver using the given cookie name
func NewSessionResolver(cookieName string, secure bool) *SessionResolver {
	if cookieName == "" {
		cookieName = "kv_cart_session"
	}
	return &SessionResolver{cookieName: cookieName, secure: secure}
}

// Lookup returns the session id carried by r, checking the cookie, then the header, then ?session=.
func (s *SessionResolver) Lookup(r *http.Request) (string, bool) {
	if c, err := r.Cookie(s.cookieName); err == nil && validSessionID(c.Value) {
		return c.Value, true
	}
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); validSessionID(id) {
		return id, true
	}
	if id := strings.TrimSpace(r.URL.Query().Get("session")); validSessionID(id) {
		return id, true
	}
	return "", false
}

// Resolve returns the request's session id. A request without one gets a new
// id, which is set as a cookie so the next request finds the same cart.
func (s *SessionResolver) Resolve(w http.ResponseWriter, r *http.Request) string {
	if id, ok := s.Lookup(r); ok {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
	return id
}

// validSessionID accepts UUIDs only, so ids cannot reach into other key namespaces.
func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return id != "" && err == nil
}
