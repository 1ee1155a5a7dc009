package models

// CurrentUser is what the header shows for the signed-in user.
// It is read from the token payload and never verified here.
// Example response:
// {
//   "signedIn": true,
//   "email": "nimal@example.com",
//   "role": "admin",
//   "displayName": "Nimal Perera",
//   "isAdmin": true
// }
type CurrentUser struct {
	SignedIn       bool   `json:"signedIn"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	DisplayName    string `json:"displayName,omitempty"`
	IsAdmin        bool   `json:"isAdmin"`
}
