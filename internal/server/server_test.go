package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carthatamaz/cartha/internal/config"
)

// newTestServer boots a server on a throwaway sqlite file with the demo
// fixtures seeded
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		HTTP:     config.HTTPConfig{ListenAddr: ":0"},
		Database: config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "test.sqlite")},
		Auth:     config.AuthConfig{JWTSecret: "test-secret-at-least-16-chars"},
		Logging:  config.LoggingConfig{Level: "error", Format: "console"},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)

	return srv
}

// doRequest performs an HTTP request against the router and decodes the
// JSON response into out (when out is non-nil)
func doRequest(t *testing.T, srv *Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if out != nil && w.Code < 400 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}

	return w.Code
}

// loginAs logs in a seeded demo account and returns the bearer token
func loginAs(t *testing.T, srv *Server, email, password string) string {
	t.Helper()

	var resp LoginResponse
	code := doRequest(t, srv, "POST", "/api/auth/login", "",
		map[string]string{"email": email, "password": password}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func TestLogin_ReturnsFlatShape(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/auth/login",
		bytes.NewBufferString(`{"email":"admin@cartha.local","password":"admin-password"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))

	// Identity fields live at the top level; there is no nested user object
	assert.Contains(t, raw, "token")
	assert.Contains(t, raw, "id")
	assert.Contains(t, raw, "email")
	assert.Contains(t, raw, "role")
	assert.NotContains(t, raw, "user")
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	code := doRequest(t, srv, "POST", "/api/auth/login", "",
		map[string]string{"email": "admin@cartha.local", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRegister_ReturnsNestedShape(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/auth/register",
		bytes.NewBufferString(`{"email":"new@example.com","password":"password123","fullName":"New User","role":"GUEST"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, "GUEST", resp.User.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]string{
		"email": "guest@cartha.local", "password": "password123",
		"fullName": "Imposter", "role": "GUEST",
	}
	code := doRequest(t, srv, "POST", "/api/auth/register", "", body, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]string{
		"email": "sneaky@example.com", "password": "password123",
		"fullName": "Sneaky", "role": "ADMIN",
	}
	code := doRequest(t, srv, "POST", "/api/auth/register", "", body, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCurrentUser_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	code := doRequest(t, srv, "GET", "/api/auth/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code = doRequest(t, srv, "GET", "/api/auth/me", "garbage-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCurrentUser_ReturnsIdentity(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var user map[string]interface{}
	code := doRequest(t, srv, "GET", "/api/auth/me", token, nil, &user)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "guest@cartha.local", user["email"])
	assert.Equal(t, "GUEST", user["role"])
}

func TestUpdateProfile_MergesFields(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var user map[string]interface{}
	code := doRequest(t, srv, "PUT", "/api/auth/me", token,
		map[string]string{"phonenumber": "0600000000"}, &user)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0600000000", user["phonenumber"])
	// Untouched fields survive
	assert.Equal(t, "Karim Traveler", user["fullName"])
}

func TestOwnerRoutes_ForbiddenForGuests(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	code := doRequest(t, srv, "GET", "/api/owner/guesthouses", token, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdminRoutes_ForbiddenForOwners(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "host@cartha.local", "host-password")

	code := doRequest(t, srv, "GET", "/api/admin/stats", token, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestListGuesthouses_OnlyActive(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var guesthouses []map[string]interface{}
	code := doRequest(t, srv, "GET", "/api/guest/guesthouses", token, nil, &guesthouses)

	require.Equal(t, http.StatusOK, code)
	// The pending Kasbah Ifrane Lodge must not appear
	require.Len(t, guesthouses, 2)
	for _, gh := range guesthouses {
		assert.Equal(t, "ACTIVE", gh["status"])
	}
}

func TestListGuesthouses_CityFilter(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var guesthouses []map[string]interface{}
	code := doRequest(t, srv, "GET", "/api/guest/guesthouses?city=Marrakech", token, nil, &guesthouses)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, guesthouses, 1)
	assert.Equal(t, "Riad El Bahja", guesthouses[0]["title"])
}

func TestCreateReservation_OverlapConflict(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var guesthouses []map[string]interface{}
	doRequest(t, srv, "GET", "/api/guest/guesthouses?city=Azrou", token, nil, &guesthouses)
	require.Len(t, guesthouses, 1)
	ghID := guesthouses[0]["id"].(string)

	// Dar Azrou is seeded with a confirmed stay 2026-09-10 to 2026-09-13
	body := map[string]interface{}{
		"guesthouseId":   ghID,
		"checkInDate":    "2026-09-11",
		"checkOutDate":   "2026-09-14",
		"numberOfGuests": 2,
	}
	code := doRequest(t, srv, "POST", "/api/guest/reservations", token, body, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestCreateReservation_ComputesTotalPrice(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var guesthouses []map[string]interface{}
	doRequest(t, srv, "GET", "/api/guest/guesthouses?city=Azrou", token, nil, &guesthouses)
	require.Len(t, guesthouses, 1)
	ghID := guesthouses[0]["id"].(string)

	body := map[string]interface{}{
		"guesthouseId":   ghID,
		"checkInDate":    "2026-11-01",
		"checkOutDate":   "2026-11-04",
		"numberOfGuests": 2,
	}
	var res map[string]interface{}
	code := doRequest(t, srv, "POST", "/api/guest/reservations", token, body, &res)

	require.Equal(t, http.StatusCreated, code)
	// 3 nights at 45 per night
	assert.Equal(t, float64(135), res["totalPrice"])
	assert.Equal(t, "PENDING", res["status"])
}

func TestReservationLifecycle_ConfirmByOwner(t *testing.T) {
	srv := newTestServer(t)
	guestToken := loginAs(t, srv, "guest@cartha.local", "guest-password")
	hostToken := loginAs(t, srv, "host@cartha.local", "host-password")

	var guesthouses []map[string]interface{}
	doRequest(t, srv, "GET", "/api/guest/guesthouses?city=Marrakech", guestToken, nil, &guesthouses)
	require.Len(t, guesthouses, 1)
	ghID := guesthouses[0]["id"].(string)

	var res map[string]interface{}
	code := doRequest(t, srv, "POST", "/api/guest/reservations", guestToken, map[string]interface{}{
		"guesthouseId":   ghID,
		"checkInDate":    "2026-12-01",
		"checkOutDate":   "2026-12-03",
		"numberOfGuests": 1,
	}, &res)
	require.Equal(t, http.StatusCreated, code)
	resID := res["id"].(string)

	var confirmed map[string]interface{}
	code = doRequest(t, srv, "PUT", fmt.Sprintf("/api/owner/reservations/%s/confirm", resID), hostToken, nil, &confirmed)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "CONFIRMED", confirmed["status"])

	// A second confirm is no longer a valid transition
	code = doRequest(t, srv, "PUT", fmt.Sprintf("/api/owner/reservations/%s/confirm", resID), hostToken, nil, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestFavorites_AddCheckRemove(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var guesthouses []map[string]interface{}
	doRequest(t, srv, "GET", "/api/guest/guesthouses?city=Azrou", token, nil, &guesthouses)
	require.Len(t, guesthouses, 1)
	ghID := guesthouses[0]["id"].(string)

	code := doRequest(t, srv, "POST", "/api/favorites", token, map[string]string{"guesthouseId": ghID}, nil)
	require.Equal(t, http.StatusCreated, code)

	var isFavorite bool
	code = doRequest(t, srv, "GET", "/api/favorites/check/"+ghID, token, nil, &isFavorite)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, isFavorite)

	code = doRequest(t, srv, "DELETE", "/api/favorites/"+ghID, token, nil, nil)
	require.Equal(t, http.StatusNoContent, code)

	code = doRequest(t, srv, "GET", "/api/favorites/check/"+ghID, token, nil, &isFavorite)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, isFavorite)
}

func TestMessages_UnreadCountAndRead(t *testing.T) {
	srv := newTestServer(t)
	guestToken := loginAs(t, srv, "guest@cartha.local", "guest-password")

	// The seed includes one message from the host to the guest
	var resp struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	code := doRequest(t, srv, "GET", "/api/messages/unread/count", guestToken, nil, &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.UnreadCount)

	var messages []map[string]interface{}
	code = doRequest(t, srv, "GET", "/api/messages", guestToken, nil, &messages)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, messages)

	var unreadID string
	for _, msg := range messages {
		if msg["isRead"] == false {
			unreadID = msg["id"].(string)
		}
	}
	require.NotEmpty(t, unreadID)

	code = doRequest(t, srv, "PUT", fmt.Sprintf("/api/messages/%s/read", unreadID), guestToken, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code = doRequest(t, srv, "GET", "/api/messages/unread/count", guestToken, nil, &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), resp.UnreadCount)
}

func TestAdminStats(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "admin@cartha.local", "admin-password")

	var stats map[string]interface{}
	code := doRequest(t, srv, "GET", "/api/admin/stats", token, nil, &stats)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), stats["totalUsers"])
	assert.Equal(t, float64(3), stats["totalGuesthouses"])
	assert.Equal(t, float64(2), stats["totalReservations"])
}

func TestAdminBanLocksOutTheAccount(t *testing.T) {
	srv := newTestServer(t)
	adminToken := loginAs(t, srv, "admin@cartha.local", "admin-password")
	guestToken := loginAs(t, srv, "guest@cartha.local", "guest-password")

	var users []map[string]interface{}
	code := doRequest(t, srv, "GET", "/api/admin/users", adminToken, nil, &users)
	require.Equal(t, http.StatusOK, code)

	var guestID string
	for _, u := range users {
		if u["email"] == "guest@cartha.local" {
			guestID = u["id"].(string)
		}
	}
	require.NotEmpty(t, guestID)

	code = doRequest(t, srv, "PUT", "/api/admin/users/"+guestID, adminToken,
		map[string]string{"status": "banned"}, nil)
	require.Equal(t, http.StatusOK, code)

	// The existing token dies with the ban, and so does a fresh login
	code = doRequest(t, srv, "GET", "/api/auth/me", guestToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code = doRequest(t, srv, "POST", "/api/auth/login", "",
		map[string]string{"email": "guest@cartha.local", "password": "guest-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	srv := newTestServer(t)
	adminToken := loginAs(t, srv, "admin@cartha.local", "admin-password")

	var me map[string]interface{}
	code := doRequest(t, srv, "GET", "/api/auth/me", adminToken, nil, &me)
	require.Equal(t, http.StatusOK, code)

	code = doRequest(t, srv, "DELETE", "/api/admin/users/"+me["id"].(string), adminToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	var health map[string]interface{}
	code := doRequest(t, srv, "GET", "/health", "", nil, &health)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "online", health["status"])
}
