package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetToken("tok123")

	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestDo_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"token":"t"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_UnauthorizedHookFiresOnlyOnAuthenticatedCalls(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid email or password"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	fired := 0
	c.OnUnauthorized = func() { fired++ }

	// A failed login is a credential rejection, not a session expiry; the
	// hook must stay quiet or a typo'd password would wipe the session
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	assert.True(t, IsAuthRejected(err))
	assert.Equal(t, 0, fired)

	// The same 401 on a token-bearing request means the session is dead
	c.SetToken("stale")
	_, err = c.CurrentUser(context.Background())
	assert.True(t, IsAuthRejected(err))
	assert.Equal(t, 1, fired)
}

func TestDo_ErrorBodyBecomesMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"An account with this email already exists"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Register(context.Background(), RegisterRequest{Email: "a@b.com"})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestDo_NetworkFailureIsTransient(t *testing.T) {
	// Point at a closed port
	c := New("http://127.0.0.1:1")

	_, err := c.CurrentUser(context.Background())

	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.False(t, IsAuthRejected(err))
}

func TestErrorTaxonomy_SurvivesWrapping(t *testing.T) {
	wrapped := wrapErr(&APIError{Status: http.StatusUnauthorized, Message: "expired"})
	assert.True(t, IsAuthRejected(wrapped))

	wrapped = wrapErr(&APIError{Status: 0, Message: "timeout"})
	assert.True(t, IsTransient(wrapped))
}

type wrappingErr struct{ inner error }

func (w *wrappingErr) Error() string { return "context: " + w.inner.Error() }
func (w *wrappingErr) Unwrap() error { return w.inner }

func wrapErr(err error) error { return &wrappingErr{inner: err} }

func TestReadErrorMessage_Shapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"error field", `{"error":"nope"}`, http.StatusBadRequest},
		{"message field", `{"message":"nope"}`, http.StatusBadRequest},
		{"plain text", `nope`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.want)
				w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			c := New(ts.URL)
			_, err := c.Guesthouses(context.Background(), "")

			require.Error(t, err)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}
