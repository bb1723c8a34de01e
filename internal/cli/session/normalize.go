package session

import (
	"encoding/json"
	"errors"

	"github.com/carthatamaz/cartha/internal/cli/client"
)

// ErrUnrecognizedShape is returned when an auth response matches neither
// the nested {token, user} shape nor the backend's flat shape
var ErrUnrecognizedShape = errors.New("unrecognized auth response shape")

// authResponse covers both shapes the backend is known to produce: the
// nested {token, user:{...}} form and the flat form with identity fields
// at the top level
type authResponse struct {
	Token string       `json:"token"`
	User  *client.User `json:"user"`

	// Flat-shape fields
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phonenumber"`
	Birthday    string `json:"birthday"`
	PictureURL  string `json:"picture_url"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// normalizeAuthResponse resolves the backend's two auth response shapes
// into a canonical Session. fallbackEmail fills the identity when the
// flat shape omits it (the email the user just logged in with).
//
// This is the only place shape-sniffing happens; nothing outside the
// store ever sees the raw response.
func normalizeAuthResponse(raw json.RawMessage, fallbackEmail string) (*Session, error) {
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, ErrUnrecognizedShape
	}

	if resp.Token == "" {
		return nil, ErrUnrecognizedShape
	}

	// Nested shape
	if resp.User != nil {
		return &Session{Token: resp.Token, User: resp.User}, nil
	}

	// Flat shape: identity fields at the top level
	if resp.Email == "" && resp.ID == "" && resp.UserID == "" {
		return nil, ErrUnrecognizedShape
	}

	user := &client.User{
		ID:          firstNonEmpty(resp.ID, resp.UserID),
		Email:       firstNonEmpty(resp.Email, fallbackEmail),
		FullName:    firstNonEmpty(resp.FullName, resp.Name),
		PhoneNumber: resp.PhoneNumber,
		Birthday:    resp.Birthday,
		PictureURL:  resp.PictureURL,
		Role:        firstNonEmpty(resp.Role, string(RoleGuest)),
		Status:      firstNonEmpty(resp.Status, "active"),
		CreatedAt:   resp.CreatedAt,
	}

	return &Session{Token: resp.Token, User: user}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
