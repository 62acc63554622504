package reqres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	domain "usertable/internal/domain/user"
	"usertable/pkg/logger"
	pkgerrors "usertable/pkg/errors"
)

// DefaultBaseURL is the public users API the console mirrors.
const DefaultBaseURL = "https://reqres.in/api"

// maxErrorBody bounds how much of a failed response is kept for logs.
const maxErrorBody = 512

// UserDTO is the wire shape of a user.
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
}

// ListResponse is the wire shape of GET /users.
type ListResponse struct {
	Page       int64     `json:"page"`
	PerPage    int64     `json:"per_page"`
	Total      int64     `json:"total"`
	TotalPages int64     `json:"total_pages"`
	Data       []UserDTO `json:"data"`
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	APIKey       string
	APIKeyHeader string
}

// Client issues list and delete calls against the users API. It never retries.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	httpClient   *http.Client
	log          *zap.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		apiKeyHeader: cfg.APIKeyHeader,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		log:          log,
	}
}

// ListUsers fetches one page with GET /users?page={page}.
func (c *Client) ListUsers(ctx context.Context, page int64) (*domain.Page, error) {
	const op = "list users"

	q := url.Values{}
	q.Set("page", strconv.FormatInt(page, 10))
	endpoint := fmt.Sprintf("%s/users?%s", c.baseURL, q.Encode())

	body, status, err := c.makeRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, pkgerrors.NewUpstreamError(op, status, err)
	}

	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, pkgerrors.NewUpstreamError(op, status, fmt.Errorf("failed to decode response: %w", err))
	}
	if resp.Data == nil {
		return nil, pkgerrors.NewUpstreamError(op, status, errors.New("response has no data field"))
	}
	if resp.Total < 0 {
		return nil, pkgerrors.NewUpstreamError(op, status, fmt.Errorf("response has negative total %d", resp.Total))
	}

	users := make([]domain.User, len(resp.Data))
	for i, u := range resp.Data {
		users[i] = domain.User{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}
	}

	logger.WithContext(ctx, c.log).Debug("upstream page decoded",
		zap.Int64("page", resp.Page),
		zap.Int64("per_page", resp.PerPage),
		zap.Int64("total", resp.Total),
		zap.Int64("total_pages", resp.TotalPages),
	)

	return &domain.Page{Users: users, Total: resp.Total}, nil
}

// DeleteUser issues DELETE /users/{id}. Any 2xx is success; the body is ignored.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/users/%d", c.baseURL, id)

	if _, status, err := c.makeRequest(ctx, http.MethodDelete, endpoint); err != nil {
		return pkgerrors.NewUpstreamError("delete user", status, err)
	}
	return nil
}

// makeRequest performs the call and returns the body of a 2xx response.
// For non-2xx responses it returns the status and an error carrying a prefix
// of the body.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" && c.apiKeyHeader != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	logger.WithContext(ctx, c.log).Debug("upstream call",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, fmt.Errorf("unexpected response: %s", snippet)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
