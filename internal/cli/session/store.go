package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carthatamaz/cartha/internal/cli/client"
)

// API is the slice of the HTTP client the store depends on
type API interface {
	Login(ctx context.Context, email, password string) (json.RawMessage, error)
	Register(ctx context.Context, req client.RegisterRequest) (json.RawMessage, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*client.User, error)
	SetToken(token string)
}

// UserCache persists the identity record across CLI invocations
type UserCache interface {
	LoadUser() (*client.User, error)
	SaveUser(user *client.User) error
	ClearUser() error
}

// Store owns the session exclusively. No other component reads the
// keyring or the user cache directly; consumers go through its
// operations. It lives for the lifetime of the process.
type Store struct {
	api    API
	tokens TokenStore
	cache  UserCache
	log    zerolog.Logger

	mu   sync.Mutex
	sess Session
}

// NewStore creates a session store and installs the 401-as-implicit-logout
// hook on the client when it supports one
func NewStore(api API, tokens TokenStore, cache UserCache, log zerolog.Logger) *Store {
	s := &Store{
		api:    api,
		tokens: tokens,
		cache:  cache,
		log:    log,
	}

	if c, ok := api.(*client.Client); ok {
		c.OnUnauthorized = s.expire
	}

	return s
}

// Current returns a copy of the session
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// Hydrate reconstructs the session from persisted state, then refreshes
// the identity from the server best-effort.
//
// An explicit 401 on the refresh clears the session. Any other failure
// (network down, timeout, bad payload) keeps the optimistic session:
// stale-but-present beats forced logout on a transient failure.
func (s *Store) Hydrate(ctx context.Context) error {
	token, err := s.tokens.LoadToken()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil
		}
		return fmt.Errorf("failed to read persisted session: %w", err)
	}

	// Optimistic user from cache. A parse failure means no cached user,
	// nothing more; the token survives it.
	user, err := s.cache.LoadUser()
	if err != nil {
		s.log.Debug().Err(err).Msg("Ignoring unreadable cached user")
		user = nil
	}

	s.setSession(token, user)

	fresh, err := s.api.CurrentUser(ctx)
	if err != nil {
		if client.IsAuthRejected(err) {
			// The 401 hook already cleared local state; make it
			// unconditional anyway
			s.expire()
			return nil
		}
		s.log.Debug().Err(err).Msg("Identity refresh failed, keeping cached session")
		return nil
	}

	// The refresh was issued under `token`. If the session changed while
	// it was in flight (logout, re-login), its result must not apply.
	s.mu.Lock()
	if s.sess.Token != token {
		s.mu.Unlock()
		return nil
	}
	s.sess.User = fresh
	s.mu.Unlock()

	if err := s.cache.SaveUser(fresh); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache refreshed user")
	}

	return nil
}

// Login authenticates and establishes a session. On success it returns
// the role's landing route. On any failure the session is untouched.
func (s *Store) Login(ctx context.Context, email, password string) (string, error) {
	raw, err := s.api.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	sess, err := normalizeAuthResponse(raw, email)
	if err != nil {
		return "", err
	}

	if err := s.persist(sess); err != nil {
		return "", err
	}

	s.log.Debug().Str("role", string(sess.Role())).Msg("Logged in")

	return LandingRoute(sess.Role()), nil
}

// Register creates an account and establishes a session. Unlike login,
// registration requires the nested {token, user} response shape.
func (s *Store) Register(ctx context.Context, req client.RegisterRequest) (string, error) {
	raw, err := s.api.Register(ctx, req)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string       `json:"token"`
		User  *client.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Token == "" || resp.User == nil {
		return "", ErrUnrecognizedShape
	}

	sess := &Session{Token: resp.Token, User: resp.User}
	if err := s.persist(sess); err != nil {
		return "", err
	}

	return RouteHome, nil
}

// Logout destroys the session unconditionally and returns the public
// landing route. The server notification is fire-and-forget: its failure
// is swallowed and never blocks local clearing.
func (s *Store) Logout(ctx context.Context) string {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Debug().Err(err).Msg("Server logout notification failed")
	}

	s.expire()

	return RouteHome
}

// UpdateUser merges non-empty fields of the partial record into the
// in-memory user. A no-op when logged out; never touches the token.
func (s *Store) UpdateUser(partial client.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.User == nil {
		return
	}

	u := *s.sess.User
	if partial.FullName != "" {
		u.FullName = partial.FullName
	}
	if partial.Email != "" {
		u.Email = partial.Email
	}
	if partial.PhoneNumber != "" {
		u.PhoneNumber = partial.PhoneNumber
	}
	if partial.Birthday != "" {
		u.Birthday = partial.Birthday
	}
	if partial.PictureURL != "" {
		u.PictureURL = partial.PictureURL
	}
	s.sess.User = &u

	if err := s.cache.SaveUser(&u); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache updated user")
	}
}

// persist writes the session to the keyring and cache, then swaps it in
func (s *Store) persist(sess *Session) error {
	if err := s.tokens.SaveToken(sess.Token); err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}
	if err := s.cache.SaveUser(sess.User); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache user")
	}

	s.setSession(sess.Token, sess.User)
	return nil
}

func (s *Store) setSession(token string, user *client.User) {
	s.mu.Lock()
	s.sess = Session{Token: token, User: user}
	s.mu.Unlock()

	s.api.SetToken(token)
}

// expire clears persisted and in-memory session state. Idempotent; also
// wired as the client's 401 hook.
func (s *Store) expire() {
	if err := s.tokens.DeleteToken(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete stored token")
	}
	if err := s.cache.ClearUser(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear cached user")
	}

	s.setSession("", nil)
}
