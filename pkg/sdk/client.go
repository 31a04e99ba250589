// Package sdk provides a client for the FitLog workout-tracking API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// Client provides a high-level interface to the FitLog API.
type Client struct {
	baseURL string
	http    *http.Client
	log     hclog.Logger
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient  *http.Client
	TokenSource oauth2.TokenSource
	OnInvalid   func()
	Logger      hclog.Logger
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithTokenSource supplies the source of the bearer token attached to
// authenticated requests. The source is consulted on every request.
func WithTokenSource(source oauth2.TokenSource) ClientOption {
	return func(opts *ClientOptions) {
		opts.TokenSource = source
	}
}

// WithInvalidationHandler registers the callback fired when the server
// reports that the current credentials are no longer usable.
func WithInvalidationHandler(fn func()) ClientOption {
	return func(opts *ClientOptions) {
		opts.OnInvalid = fn
	}
}

// WithLogger sets the debug logger for request tracing.
func WithLogger(log hclog.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = log
	}
}

// NewClient creates a FitLog SDK client that communicates with the API
// server at baseURL. An http.Client is created automatically when one is
// not supplied.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	base := opts.HTTPClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// Wrap a copy so the caller's client is left untouched.
	httpClient := *opts.HTTPClient
	httpClient.Transport = &authTransport{
		base:      base,
		source:    opts.TokenSource,
		onInvalid: opts.OnInvalid,
	}

	return &Client{
		baseURL: baseURL,
		http:    &httpClient,
		log:     opts.Logger.Named("sdk"),
	}
}

// CreateSession exchanges email and password for a session. This is the
// credential exchange consumed by the session manager.
func (c *Client) CreateSession(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out Session
	if err := c.do(ctx, http.MethodPost, "sessions", body, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser registers a new account. It does not sign the user in.
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) error {
	return c.do(ctx, http.MethodPost, "users", input, nil, nil)
}

// UpdateUser updates the authenticated user's name and, optionally,
// password.
func (c *Client) UpdateUser(ctx context.Context, input UpdateUserInput) error {
	return c.do(ctx, http.MethodPut, "users", input, nil, nil)
}

// ListGroups returns the muscle groups known to the server.
func (c *Client) ListGroups(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "groups", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ListExercisesByGroup returns the exercises for a muscle group.
func (c *Client) ListExercisesByGroup(ctx context.Context, group string) ([]Exercise, error) {
	var out []Exercise
	path := "exercises/bygroup/" + url.PathEscape(group)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExercise retrieves a single exercise by ID.
func (c *Client) GetExercise(ctx context.Context, id string) (*Exercise, error) {
	if id == "" {
		return nil, fmt.Errorf("exercise ID is required")
	}
	var out Exercise
	if err := c.do(ctx, http.MethodGet, "exercises/"+url.PathEscape(id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogExercise records a completed exercise in the user's history. A
// client-generated request ID is attached for traceability.
func (c *Client) LogExercise(ctx context.Context, exerciseID string) error {
	if exerciseID == "" {
		return fmt.Errorf("exercise ID is required")
	}
	body := map[string]string{"exercise_id": exerciseID}
	headers := http.Header{"X-Request-Id": []string{uuid.NewString()}}
	return c.do(ctx, http.MethodPost, "history", body, nil, headers)
}

// ListHistory returns the user's workout history grouped by day.
func (c *Client) ListHistory(ctx context.Context) ([]HistoryDay, error) {
	var out []HistoryDay
	if err := c.do(ctx, http.MethodGet, "history", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// do executes one API call: encode the body, send, map non-2xx responses to
// *APIError, and decode the response into out when provided.
func (c *Client) do(ctx context.Context, method, path string, body, out any, headers http.Header) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	c.log.Debug("api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Message
		}
		c.log.Debug("api error", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
