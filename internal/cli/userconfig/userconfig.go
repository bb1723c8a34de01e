package userconfig

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/carthatamaz/cartha/internal/cli/client"
)

const (
	configDirName  = "cartha"
	configFileName = "config.json"

	// DefaultAPIURL points at a locally running demo server
	DefaultAPIURL = "http://localhost:8080"
)

// UserConfig is the user's local configuration stored in
// ~/.config/cartha/config.json. The cached user record is the "user" half
// of the persisted session; the token itself lives in the OS keyring.
type UserConfig struct {
	APIURL string          `json:"api_url,omitempty"`
	User   json.RawMessage `json:"user,omitempty"`
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// Load reads the user configuration file. A missing file is an empty
// config; an unparseable file is an error the caller decides about.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// ResolveAPIURL returns the API base URL: the CARTHA_API_URL env var wins,
// then the config file, then the local default
func ResolveAPIURL() string {
	if fromEnv := os.Getenv("CARTHA_API_URL"); fromEnv != "" {
		return fromEnv
	}

	cfg, err := Load()
	if err == nil && cfg.APIURL != "" {
		return cfg.APIURL
	}

	return DefaultAPIURL
}

// SetAPIURL validates and persists the API base URL
func SetAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL %q, expected e.g. http://localhost:8080", raw)
	}

	cfg, err := Load()
	if err != nil {
		cfg = &UserConfig{}
	}

	cfg.APIURL = raw
	return Save(cfg)
}

// Cache persists the session's user record in the user config file.
// It implements the session store's UserCache.
type Cache struct{}

// NewCache returns the file-backed user cache
func NewCache() *Cache {
	return &Cache{}
}

// LoadUser returns the cached identity record. A corrupt record is an
// error; the session store treats it as "no cached user".
func (Cache) LoadUser() (*client.User, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if len(cfg.User) == 0 {
		return nil, nil
	}

	var user client.User
	if err := json.Unmarshal(cfg.User, &user); err != nil {
		return nil, fmt.Errorf("failed to parse cached user: %w", err)
	}

	return &user, nil
}

func (Cache) SaveUser(user *client.User) error {
	cfg, err := Load()
	if err != nil {
		cfg = &UserConfig{}
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	cfg.User = data
	return Save(cfg)
}

func (Cache) ClearUser() error {
	cfg, err := Load()
	if err != nil {
		cfg = &UserConfig{}
	}

	cfg.User = nil
	return Save(cfg)
}
