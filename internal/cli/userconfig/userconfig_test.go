package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carthatamaz/cartha/internal/cli/client"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_MissingFileIsEmptyConfig(t *testing.T) {
	withTempHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIURL)
	assert.Empty(t, cfg.User)
}

func TestLoad_UnparseableFileIsError(t *testing.T) {
	home := withTempHome(t)

	path := filepath.Join(home, ".config", configDirName, configFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	withTempHome(t)

	require.NoError(t, Save(&UserConfig{APIURL: "http://demo:9090"}))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://demo:9090", cfg.APIURL)
}

func TestResolveAPIURL_Precedence(t *testing.T) {
	withTempHome(t)

	// Nothing configured: the local default
	t.Setenv("CARTHA_API_URL", "")
	assert.Equal(t, DefaultAPIURL, ResolveAPIURL())

	// Config file beats the default
	require.NoError(t, SetAPIURL("http://from-file:8080"))
	assert.Equal(t, "http://from-file:8080", ResolveAPIURL())

	// Environment beats the file
	t.Setenv("CARTHA_API_URL", "http://from-env:8080")
	assert.Equal(t, "http://from-env:8080", ResolveAPIURL())
}

func TestSetAPIURL_RejectsInvalid(t *testing.T) {
	withTempHome(t)

	assert.Error(t, SetAPIURL("not a url"))
	assert.Error(t, SetAPIURL("/just/a/path"))
	assert.NoError(t, SetAPIURL("http://localhost:8080"))
}

func TestCache_RoundTrip(t *testing.T) {
	withTempHome(t)
	cache := NewCache()

	// Empty cache: no user, no error
	user, err := cache.LoadUser()
	require.NoError(t, err)
	assert.Nil(t, user)

	saved := &client.User{ID: "u1", Email: "a@b.com", Role: "GUEST"}
	require.NoError(t, cache.SaveUser(saved))

	loaded, err := cache.LoadUser()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "u1", loaded.ID)
	assert.Equal(t, "a@b.com", loaded.Email)

	require.NoError(t, cache.ClearUser())
	loaded, err = cache.LoadUser()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

// Clearing the user must not wipe unrelated settings
func TestCache_ClearKeepsAPIURL(t *testing.T) {
	withTempHome(t)
	cache := NewCache()

	require.NoError(t, SetAPIURL("http://keep-me:8080"))
	require.NoError(t, cache.SaveUser(&client.User{ID: "u1"}))
	require.NoError(t, cache.ClearUser())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://keep-me:8080", cfg.APIURL)
}

func TestCache_CorruptUserRecordIsError(t *testing.T) {
	withTempHome(t)

	require.NoError(t, Save(&UserConfig{User: []byte(`"not an object"`)}))

	_, err := NewCache().LoadUser()
	assert.Error(t, err)
}
