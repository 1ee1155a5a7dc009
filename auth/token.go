// Package auth reads the claims of the storefront's bearer token.
//
// Signatures are NOT verified here. The claims are hints for what to display
// (greeting, admin link); every authorization decision belongs to the backend
// that issued and verifies the token.
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// RoleAdmin is the role carried by back-office users.
const RoleAdmin = "admin"

// ErrNoToken is returned when a request carries no bearer token.
var ErrNoToken = errors.New("no bearer token")

// Claims are the user fields the backend puts in the token payload.
type Claims struct {
	jwt.RegisteredClaims
	Email          string `json:"email"`
	Role           string `json:"role"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	EmailVerified  bool   `json:"emailVerified,omitempty"`
}

// IsAdmin reports whether the token claims the admin role.
func (c *Claims) IsAdmin() bool {
	return strings.EqualFold(c.Role, RoleAdmin)
}

// DisplayName is the name shown in the header.
func (c *Claims) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

// DecodeUnverified reads the token payload without checking its signature or expiry.
func DecodeUnverified(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, errors.Wrap(err, "decode token payload")
	}
	return &claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrNoToken
	}
	return strings.TrimSpace(token), nil
}

// ClaimsFromRequest decodes the bearer token of r, if any.
func ClaimsFromRequest(r *http.Request) (*Claims, error) {
	token, err := BearerToken(r)
	if err != nil {
		return nil, err
	}
	return DecodeUnverified(token)
}
