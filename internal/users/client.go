package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultEndpoint is the user collection the view loads when nothing else is configured
const DefaultEndpoint = "https://jsonplaceholder.typicode.com/users"

// ErrUnexpectedStatus is returned when the endpoint answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected status")

// Fetcher retrieves the user collection
type Fetcher interface {
	Fetch(ctx context.Context) ([]User, error)
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches users over HTTP
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a new users client.
// The http.Client carries no timeout unless the caller supplies one.
func NewClient(opts ClientOptions) *Client {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Endpoint returns the URL the client fetches from
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch issues a single GET for the user collection
func (c *Client) Fetch(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching users", slog.String("endpoint", c.endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var list []User
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("fetched users", slog.Int("count", len(list)))
	return list, nil
}

// FormatFetchError converts a fetch failure into the message shown to the user
func FormatFetchError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error fetching users: %s", err.Error())
}
