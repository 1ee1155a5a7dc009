package controller

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"kv-rentals/auth"
	"kv-rentals/models"
)

// UserController reports who the bearer token says the caller is
type UserController struct{}

// NewUserController creates a new UserController
func NewUserController() *UserController {
	return &UserController{}
}

// GetMe handles GET /api/me
// A missing or undecodable token answers {"signedIn": false}, never an error.
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetMe")
		return
	}

	claims, err := auth.ClaimsFromRequest(r)
	if err != nil {
		logrus.WithError(err).Debug("GetMe: no usable token")
		writeJSON(w, http.StatusOK, models.CurrentUser{})
		return
	}

	writeJSON(w, http.StatusOK, models.CurrentUser{
		SignedIn:       true,
		Email:          claims.Email,
		Role:           claims.Role,
		FirstName:      claims.FirstName,
		LastName:       claims.LastName,
		Phone:          claims.Phone,
		ProfilePicture: claims.ProfilePicture,
		DisplayName:    claims.DisplayName(),
		IsAdmin:        claims.IsAdmin(),
	})
}
