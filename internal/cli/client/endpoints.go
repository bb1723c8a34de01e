package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Login authenticates with email and password. The response is returned
// raw because the backend is known to answer in two different shapes
// (flat and nested); the session store owns the normalization.
func (c *Client) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(ctx, "POST", "/api/auth/login", LoginRequest{Email: email, Password: password}, &raw)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Register creates an account. Raw for the same reason as Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "POST", "/api/auth/register", req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Logout notifies the server that the session ends. Callers treat this as
// best-effort; local session clearing never depends on it.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "POST", "/api/auth/logout", nil, nil)
}

// ForgotPassword requests a password recovery code
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, "POST", "/api/auth/forgot-password", body, nil)
}

// ResetPassword redeems a recovery code for a new password
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{"email": email, "code": code, "newPassword": newPassword}
	return c.do(ctx, "POST", "/api/auth/reset-password", body, nil)
}

// CurrentUser fetches the identity record behind the bearer token
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "GET", "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile submits edited identity fields; empty fields are left
// unchanged server-side. Returns the full updated record.
func (c *Client) UpdateProfile(ctx context.Context, partial User) (*User, error) {
	body := map[string]string{
		"fullName":    partial.FullName,
		"phonenumber": partial.PhoneNumber,
		"birthday":    partial.Birthday,
		"picture_url": partial.PictureURL,
	}
	var user User
	if err := c.do(ctx, "PUT", "/api/auth/me", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Guesthouses returns active listings, optionally filtered by city
func (c *Client) Guesthouses(ctx context.Context, city string) ([]Guesthouse, error) {
	path := "/api/guest/guesthouses"
	if city != "" {
		path += "?city=" + url.QueryEscape(city)
	}
	var guesthouses []Guesthouse
	if err := c.do(ctx, "GET", path, nil, &guesthouses); err != nil {
		return nil, err
	}
	return guesthouses, nil
}

func (c *Client) Guesthouse(ctx context.Context, id string) (*Guesthouse, error) {
	var guesthouse Guesthouse
	if err := c.do(ctx, "GET", "/api/guest/guesthouses/"+url.PathEscape(id), nil, &guesthouse); err != nil {
		return nil, err
	}
	return &guesthouse, nil
}

// OwnerGuesthouses returns the authenticated host's own listings
func (c *Client) OwnerGuesthouses(ctx context.Context) ([]Guesthouse, error) {
	var guesthouses []Guesthouse
	if err := c.do(ctx, "GET", "/api/owner/guesthouses", nil, &guesthouses); err != nil {
		return nil, err
	}
	return guesthouses, nil
}

func (c *Client) CreateGuesthouse(ctx context.Context, req GuesthouseRequest) (*Guesthouse, error) {
	var guesthouse Guesthouse
	if err := c.do(ctx, "POST", "/api/owner/guesthouses", req, &guesthouse); err != nil {
		return nil, err
	}
	return &guesthouse, nil
}

func (c *Client) UpdateGuesthouse(ctx context.Context, id string, req GuesthouseRequest) (*Guesthouse, error) {
	var guesthouse Guesthouse
	if err := c.do(ctx, "PUT", "/api/owner/guesthouses/"+url.PathEscape(id), req, &guesthouse); err != nil {
		return nil, err
	}
	return &guesthouse, nil
}

func (c *Client) DeleteGuesthouse(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/owner/guesthouses/"+url.PathEscape(id), nil, nil)
}

// Reservations returns the authenticated guest's bookings
func (c *Client) Reservations(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	if err := c.do(ctx, "GET", "/api/guest/reservations", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) (*Reservation, error) {
	var reservation Reservation
	if err := c.do(ctx, "POST", "/api/guest/reservations", req, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *Client) CancelReservation(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, "PUT", fmt.Sprintf("/api/guest/reservations/%s/cancel", url.PathEscape(id)), body, nil)
}

// OwnerReservations returns bookings on the host's listings
func (c *Client) OwnerReservations(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	if err := c.do(ctx, "GET", "/api/owner/reservations", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *Client) ConfirmReservation(ctx context.Context, id string) (*Reservation, error) {
	var reservation Reservation
	err := c.do(ctx, "PUT", fmt.Sprintf("/api/owner/reservations/%s/confirm", url.PathEscape(id)), nil, &reservation)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *Client) RejectReservation(ctx context.Context, id, reason string) (*Reservation, error) {
	body := map[string]string{"reason": reason}
	var reservation Reservation
	err := c.do(ctx, "PUT", fmt.Sprintf("/api/owner/reservations/%s/reject", url.PathEscape(id)), body, &reservation)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Messages returns the user's message history, newest first
func (c *Client) Messages(ctx context.Context) ([]Message, error) {
	var messages []Message
	if err := c.do(ctx, "GET", "/api/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, req MessageRequest) (*Message, error) {
	var message Message
	if err := c.do(ctx, "POST", "/api/messages", req, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	return c.do(ctx, "PUT", fmt.Sprintf("/api/messages/%s/read", url.PathEscape(id)), nil, nil)
}

func (c *Client) UnreadMessageCount(ctx context.Context) (int64, error) {
	var resp struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	if err := c.do(ctx, "GET", "/api/messages/unread/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}

func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var conversations []Conversation
	if err := c.do(ctx, "GET", "/api/messages/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// Favorites returns the user's favorited guesthouses
func (c *Client) Favorites(ctx context.Context) ([]Guesthouse, error) {
	var guesthouses []Guesthouse
	if err := c.do(ctx, "GET", "/api/favorites", nil, &guesthouses); err != nil {
		return nil, err
	}
	return guesthouses, nil
}

func (c *Client) AddFavorite(ctx context.Context, guesthouseID string) error {
	body := map[string]string{"guesthouseId": guesthouseID}
	return c.do(ctx, "POST", "/api/favorites", body, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, guesthouseID string) error {
	return c.do(ctx, "DELETE", "/api/favorites/"+url.PathEscape(guesthouseID), nil, nil)
}

func (c *Client) IsFavorite(ctx context.Context, guesthouseID string) (bool, error) {
	var isFavorite bool
	if err := c.do(ctx, "GET", "/api/favorites/check/"+url.PathEscape(guesthouseID), nil, &isFavorite); err != nil {
		return false, err
	}
	return isFavorite, nil
}

// Stats returns admin dashboard counters
func (c *Client) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.do(ctx, "GET", "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Users lists all accounts (admin only)
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "GET", "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser edits an account's name, role or status (admin only).
// Empty fields are left unchanged.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	var user User
	if err := c.do(ctx, "PUT", "/api/admin/users/"+url.PathEscape(id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account (admin only)
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/admin/users/"+url.PathEscape(id), nil, nil)
}
