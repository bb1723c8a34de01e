package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carthatamaz/cartha/internal/cli/client"
)

// mockAPI simulates the marketplace API for store tests
type mockAPI struct {
	loginResponse    json.RawMessage
	loginErr         error
	registerResponse json.RawMessage
	registerErr      error
	logoutErr        error
	currentUser      *client.User
	currentUserErr   error

	// onCurrentUser runs inside CurrentUser before it returns, letting a
	// test change the store while a refresh is in flight
	onCurrentUser func()

	token string
}

func (m *mockAPI) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	return m.loginResponse, m.loginErr
}

func (m *mockAPI) Register(ctx context.Context, req client.RegisterRequest) (json.RawMessage, error) {
	return m.registerResponse, m.registerErr
}

func (m *mockAPI) Logout(ctx context.Context) error {
	return m.logoutErr
}

func (m *mockAPI) CurrentUser(ctx context.Context) (*client.User, error) {
	if m.onCurrentUser != nil {
		m.onCurrentUser()
	}
	return m.currentUser, m.currentUserErr
}

func (m *mockAPI) SetToken(token string) {
	m.token = token
}

// memoryTokenStore replaces the OS keyring in tests
type memoryTokenStore struct {
	token  string
	stored bool
}

func (m *memoryTokenStore) SaveToken(token string) error {
	m.token = token
	m.stored = true
	return nil
}

func (m *memoryTokenStore) LoadToken() (string, error) {
	if !m.stored {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *memoryTokenStore) DeleteToken() error {
	m.token = ""
	m.stored = false
	return nil
}

// memoryUserCache replaces the config-file cache in tests
type memoryUserCache struct {
	user    *client.User
	loadErr error
}

func (m *memoryUserCache) LoadUser() (*client.User, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.user, nil
}

func (m *memoryUserCache) SaveUser(user *client.User) error {
	m.user = user
	return nil
}

func (m *memoryUserCache) ClearUser() error {
	m.user = nil
	return nil
}

func newTestStore(api *mockAPI, tokens *memoryTokenStore, cache *memoryUserCache) *Store {
	return NewStore(api, tokens, cache, zerolog.Nop())
}

func TestLogin_FlatResponseEstablishesSession(t *testing.T) {
	api := &mockAPI{
		loginResponse: json.RawMessage(`{"token":"abc","id":"5","email":"a@b.com","role":"ADMIN"}`),
	}
	tokens := &memoryTokenStore{}
	cache := &memoryUserCache{}
	store := newTestStore(api, tokens, cache)

	landing, err := store.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, RouteAdminDashboard, landing)

	sess := store.Current()
	assert.True(t, sess.Valid())
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, "5", sess.User.ID)

	// Token and user are persisted, and the client carries the token
	assert.Equal(t, "abc", tokens.token)
	require.NotNil(t, cache.user)
	assert.Equal(t, "abc", api.token)
}

func TestLogin_NestedResponseEstablishesSession(t *testing.T) {
	api := &mockAPI{
		loginResponse: json.RawMessage(`{"token":"t","user":{"id":"u1","email":"g@example.com","role":"GUEST"}}`),
	}
	store := newTestStore(api, &memoryTokenStore{}, &memoryUserCache{})

	landing, err := store.Login(context.Background(), "g@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, RouteGuestArea, landing)
}

func TestLogin_UnrecognizedShapeLeavesSessionUntouched(t *testing.T) {
	api := &mockAPI{loginResponse: json.RawMessage(`{"ok":true}`)}
	tokens := &memoryTokenStore{}
	store := newTestStore(api, tokens, &memoryUserCache{})

	_, err := store.Login(context.Background(), "a@b.com", "pw")
	assert.ErrorIs(t, err, ErrUnrecognizedShape)

	assert.False(t, tokens.stored)
	sess := store.Current()
	assert.False(t, sess.Valid())
}

func TestRegister_RequiresNestedShape(t *testing.T) {
	// The flat shape that login tolerates is a hard error on registration
	api := &mockAPI{
		registerResponse: json.RawMessage(`{"token":"t","id":"5","email":"a@b.com","role":"GUEST"}`),
	}
	store := newTestStore(api, &memoryTokenStore{}, &memoryUserCache{})

	_, err := store.Register(context.Background(), client.RegisterRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrUnrecognizedShape)
	sess := store.Current()
	assert.False(t, sess.Valid())
}

func TestRegister_NestedShapeLandsHome(t *testing.T) {
	api := &mockAPI{
		registerResponse: json.RawMessage(`{"token":"t","user":{"id":"u1","email":"new@example.com","role":"OWNER"}}`),
	}
	store := newTestStore(api, &memoryTokenStore{}, &memoryUserCache{})

	landing, err := store.Register(context.Background(), client.RegisterRequest{Email: "new@example.com"})
	require.NoError(t, err)

	assert.Equal(t, RouteHome, landing)
	sess := store.Current()
	assert.True(t, sess.Valid())
}

func TestHydrate_NoPersistedTokenIsLoggedOut(t *testing.T) {
	api := &mockAPI{}
	store := newTestStore(api, &memoryTokenStore{}, &memoryUserCache{})

	require.NoError(t, store.Hydrate(context.Background()))
	sess := store.Current()
	assert.False(t, sess.Valid())
}

func TestHydrate_RefreshReplacesCachedUser(t *testing.T) {
	fresh := &client.User{ID: "u1", Email: "fresh@example.com", Role: "GUEST"}
	api := &mockAPI{currentUser: fresh}
	tokens := &memoryTokenStore{token: "tok", stored: true}
	cache := &memoryUserCache{user: &client.User{ID: "u1", Email: "stale@example.com", Role: "GUEST"}}
	store := newTestStore(api, tokens, cache)

	require.NoError(t, store.Hydrate(context.Background()))

	sess := store.Current()
	require.True(t, sess.Valid())
	assert.Equal(t, "fresh@example.com", sess.User.Email)
	assert.Equal(t, "fresh@example.com", cache.user.Email)
}

func TestHydrate_AuthRejectionClearsSession(t *testing.T) {
	api := &mockAPI{currentUserErr: &client.APIError{Status: 401, Message: "expired"}}
	tokens := &memoryTokenStore{token: "tok", stored: true}
	cache := &memoryUserCache{user: &client.User{ID: "u1", Role: "GUEST"}}
	store := newTestStore(api, tokens, cache)

	require.NoError(t, store.Hydrate(context.Background()))

	sess := store.Current()
	assert.False(t, sess.Valid())
	assert.False(t, tokens.stored)
	assert.Nil(t, cache.user)
}

func TestHydrate_TransientFailureKeepsCachedSession(t *testing.T) {
	api := &mockAPI{currentUserErr: &client.APIError{Status: 0, Message: "connection refused"}}
	tokens := &memoryTokenStore{token: "tok", stored: true}
	cache := &memoryUserCache{user: &client.User{ID: "u1", Email: "cached@example.com", Role: "OWNER"}}
	store := newTestStore(api, tokens, cache)

	require.NoError(t, store.Hydrate(context.Background()))

	sess := store.Current()
	require.True(t, sess.Valid())
	assert.Equal(t, "cached@example.com", sess.User.Email)
	assert.True(t, tokens.stored)
}

func TestHydrate_CorruptCacheLeavesTokenWithoutUser(t *testing.T) {
	api := &mockAPI{currentUserErr: &client.APIError{Status: 0, Message: "offline"}}
	tokens := &memoryTokenStore{token: "tok", stored: true}
	cache := &memoryUserCache{loadErr: assert.AnError}
	store := newTestStore(api, tokens, cache)

	require.NoError(t, store.Hydrate(context.Background()))

	// Token without a user: present but not valid, so gates treat it as
	// logged out rather than erroring
	sess := store.Current()
	assert.Equal(t, "tok", sess.Token)
	assert.False(t, sess.Valid())
}

func TestHydrate_LateRefreshCannotResurrectClearedSession(t *testing.T) {
	api := &mockAPI{
		currentUser: &client.User{ID: "u1", Email: "late@example.com", Role: "GUEST"},
	}
	tokens := &memoryTokenStore{token: "tok", stored: true}
	cache := &memoryUserCache{}
	store := newTestStore(api, tokens, cache)

	// The user logs out while the identity refresh is still in flight
	api.onCurrentUser = func() {
		store.Logout(context.Background())
	}

	require.NoError(t, store.Hydrate(context.Background()))

	sess := store.Current()
	assert.False(t, sess.Valid())
	assert.False(t, tokens.stored)
	assert.Nil(t, cache.user)
}

func TestLogout_ClearsLocallyEvenWhenServerFails(t *testing.T) {
	api := &mockAPI{
		loginResponse: json.RawMessage(`{"token":"t","email":"a@b.com","role":"GUEST"}`),
		logoutErr:     &client.APIError{Status: 0, Message: "server unreachable"},
	}
	tokens := &memoryTokenStore{}
	cache := &memoryUserCache{}
	store := newTestStore(api, tokens, cache)

	_, err := store.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	landing := store.Logout(context.Background())

	assert.Equal(t, RouteHome, landing)
	sess := store.Current()
	assert.False(t, sess.Valid())
	assert.False(t, tokens.stored)
	assert.Nil(t, cache.user)
	assert.Empty(t, api.token)
}

func TestUpdateUser_MergesNonEmptyFields(t *testing.T) {
	api := &mockAPI{
		loginResponse: json.RawMessage(`{"token":"t","user":{"id":"u1","email":"a@b.com","fullName":"Old Name","phonenumber":"111","role":"GUEST"}}`),
	}
	cache := &memoryUserCache{}
	store := newTestStore(api, &memoryTokenStore{}, cache)

	_, err := store.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	store.UpdateUser(client.User{FullName: "New Name"})

	sess := store.Current()
	assert.Equal(t, "New Name", sess.User.FullName)
	assert.Equal(t, "111", sess.User.PhoneNumber)
	assert.Equal(t, "t", sess.Token)
	assert.Equal(t, "New Name", cache.user.FullName)
}

func TestUpdateUser_NoOpWhenLoggedOut(t *testing.T) {
	store := newTestStore(&mockAPI{}, &memoryTokenStore{}, &memoryUserCache{})

	store.UpdateUser(client.User{FullName: "Ghost"})

	sess := store.Current()
	assert.False(t, sess.Valid())
}
