// Package api is the HTTP client for the tiffin backend. Every response
// uses a success/data/message envelope; failures map onto a small taxonomy
// (timeout, unreachable, http status, server-reported) so callers can
// message each case differently without string matching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"tiffinbox/internal/models"
	"tiffinbox/internal/monitoring"
)

// DefaultTimeout bounds every request. The hosted backend runs on
// serverless infrastructure and can be slow on cold starts.
const DefaultTimeout = 60 * time.Second

// Client talks to the tiffin REST API.
type Client struct {
	httpClient *http.Client
	BaseURL    string
	token      string
	metrics    *monitoring.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMetrics records request counts on the given collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates an API client. TIFFIN_API_URL overrides the base URL
// when set.
func NewClient(baseURL string, opts ...Option) *Client {
	if env := os.Getenv("TIFFIN_API_URL"); env != "" {
		baseURL = env
	}

	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		BaseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SetToken attaches a bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do performs one request and decodes the envelope's data into out (when
// out is non-nil). Transport errors are classified before returning.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.count(path, "transport_error")
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count(path, "http_error")
		respBody, _ := io.ReadAll(resp.Body)
		if msg := envelopeMessage(respBody); msg != "" {
			return &ServerError{Message: msg}
		}
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.count(path, "decode_error")
		return fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		c.count(path, "server_error")
		return &ServerError{Message: env.Message}
	}

	c.count(path, "ok")
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}

func (c *Client) count(path, outcome string) {
	if c.metrics != nil {
		c.metrics.CountRequest(path, outcome)
	}
}

// classify maps a transport error onto the timeout/unreachable sentinels.
// http.Client wraps the cause in *url.Error, so inspection goes through
// errors.Is/As rather than equality.
func classify(err error) error {
	var urlErr *url.Error
	switch {
	case errors.As(err, &urlErr) && urlErr.Timeout():
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrTimeout, context.Canceled)
	default:
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
}

// envelopeMessage extracts a server message from an error body, if the body
// is an envelope at all.
func envelopeMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}

// Health checks whether the API is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// --- Orders ---

// CreateOrder submits the order payload and returns the new order id.
func (c *Client) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", order, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// GetOrder fetches the current server state of an order, including status.
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetMyOrders lists the orders placed under a phone number.
func (c *Client) GetMyOrders(ctx context.Context, phone string) ([]models.Order, error) {
	var orders []models.Order
	path := "/orders?phone=" + url.QueryEscape(phone)
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// --- Menu ---

// GetPackages lists all package meals.
func (c *Client) GetPackages(ctx context.Context) ([]models.PackageMeal, error) {
	var packages []models.PackageMeal
	if err := c.do(ctx, http.MethodGet, "/packages", nil, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// GetPackagesByDay lists package meals for a weekday, optionally filtered
// by meal type.
func (c *Client) GetPackagesByDay(ctx context.Context, day, mealType string) ([]models.PackageMeal, error) {
	path := "/packages/day/" + url.PathEscape(day)
	if mealType != "" {
		path += "?mealType=" + url.QueryEscape(mealType)
	}
	var packages []models.PackageMeal
	if err := c.do(ctx, http.MethodGet, path, nil, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// GetSingles lists the a-la-carte catalog.
func (c *Client) GetSingles(ctx context.Context) ([]models.SingleMeal, error) {
	var singles []models.SingleMeal
	if err := c.do(ctx, http.MethodGet, "/singles", nil, &singles); err != nil {
		return nil, err
	}
	return singles, nil
}

// GetSinglesByCategory lists a-la-carte items in one category.
func (c *Client) GetSinglesByCategory(ctx context.Context, category string) ([]models.SingleMeal, error) {
	var singles []models.SingleMeal
	path := "/singles/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, nil, &singles); err != nil {
		return nil, err
	}
	return singles, nil
}

// GetSingleCategories lists the known a-la-carte categories.
func (c *Client) GetSingleCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/singles/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// --- Auth ---

// Session is the identity payload returned by login and register.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login authenticates by phone and password.
func (c *Client) Login(ctx context.Context, phone, password string) (*Session, error) {
	body := map[string]string{"phone": phone, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates a new account. The backend does not log the user in;
// callers follow up with Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}
