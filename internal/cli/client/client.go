package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout bounds every outbound call. A request that exceeds it is
// aborted and surfaced as a transient failure, never as a credential
// rejection.
const requestTimeout = 10 * time.Second

// APIError represents an error response from the marketplace API.
// Status 0 means the request never completed (network failure, timeout).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// IsAuthRejected reports whether the server explicitly rejected the
// credential (HTTP 401)
func IsAuthRejected(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// IsValidation reports whether the server rejected the request contents
// (HTTP 400 or 409)
func IsValidation(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusConflict)
}

// IsTransient reports whether the failure is local or network-level
// (timeout, connection refused) rather than a server verdict
func IsTransient(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Status == 0
}

func asAPIError(err error) (*APIError, bool) {
	for err != nil {
		if apiErr, ok := err.(*APIError); ok {
			return apiErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Client is an HTTP client for the Cartha marketplace API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string

	// OnUnauthorized is invoked whenever an AUTHENTICATED request comes
	// back 401. The session store installs its clearing logic here so the
	// 401-as-implicit-logout policy lives in exactly one place. Calls that
	// carried no token (login, register) never trigger it.
	OnUnauthorized func()
}

// New creates a new API client for the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetToken sets the bearer token attached to subsequent requests.
// An empty string detaches it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do executes a request and decodes the JSON response into out (when out
// is non-nil). Error bodies of the form {"error": "..."} become the
// APIError message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	authenticated := c.token != ""
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		message := readErrorMessage(resp.Body)
		if message == "" {
			message = resp.Status
		}
		if resp.StatusCode == http.StatusUnauthorized && authenticated && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}

	return strings.TrimSpace(string(data))
}
