// Package api is the JSON-over-HTTP client for the storefront backend.
// The backend owns pricing, inventory, payment and order lifecycle; this
// client only shuttles requests and maps response statuses onto a small set
// of typed outcomes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout    = 8 * time.Second
	idempotencyHeader = "Idempotency-Key"
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues catalog, checkout, order and admin calls against the backend API.
type Client struct {
	base   *url.URL
	client HTTPClient
}

// NewClient constructs an API client for the given base URL.
func NewClient(baseURL string, client HTTPClient) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: parsed, client: client}, nil
}

// ListProducts returns the active catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var payload productListPayload
	if err := c.getJSON(ctx, "/api/products/", "", &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// GetProduct fetches a single product; missing IDs yield ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	var product Product
	endpoint := "/api/products/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, endpoint, "", &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// CreateCheckout submits the cart snapshot and returns the created order.
// The request's idempotency key is forwarded so the backend can drop
// duplicate submissions.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (Order, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, "/api/checkout/", req, "")
	if err != nil {
		return Order{}, err
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		httpReq.Header.Set(idempotencyHeader, key)
	}
	var order Order
	if err := c.doJSON(httpReq, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// GetOrderByNumber fetches an order for the confirmation page.
func (c *Client) GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error) {
	var order Order
	endpoint := "/api/orders/by-number/" + url.PathEscape(strings.TrimSpace(orderNumber))
	if err := c.getJSON(ctx, endpoint, "", &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// ListOrders returns all orders; requires an admin bearer token.
func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var payload orderListPayload
	if err := c.getJSON(ctx, "/api/orders/", token, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// UpdateOrder transitions an order's status and optionally sets a tracking
// number; requires an admin bearer token.
func (c *Client) UpdateOrder(ctx context.Context, token string, orderID int64, upd OrderUpdate) (Order, error) {
	endpoint := "/api/admin/orders/" + strconv.FormatInt(orderID, 10)
	httpReq, err := c.newJSONRequest(ctx, http.MethodPut, endpoint, upd, token)
	if err != nil {
		return Order{}, err
	}
	var order Order
	if err := c.doJSON(httpReq, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// DashboardStats returns aggregate counts for the admin dashboard.
func (c *Client) DashboardStats(ctx context.Context, token string) (DashboardStats, error) {
	var stats DashboardStats
	if err := c.getJSON(ctx, "/api/admin/dashboard/stats", token, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// Login exchanges admin credentials for a bearer token. The backend takes
// the credentials as query parameters.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	q := url.Values{}
	q.Set("username", strings.TrimSpace(username))
	q.Set("password", password)
	endpoint := "/api/admin/login?" + q.Encode()

	httpReq, err := c.newRequest(ctx, http.MethodPost, endpoint, nil, "")
	if err != nil {
		return "", err
	}
	var payload tokenPayload
	if err := c.doJSON(httpReq, &payload); err != nil {
		return "", err
	}
	return payload.AccessToken, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, token string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, token)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return &StatusError{Status: resp.StatusCode, Body: drainError(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any, token string) (*http.Request, error) {
	var buf bytes.Buffer
	if payload != nil {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return nil, fmt.Errorf("api: encode payload: %w", err)
		}
	}
	req, err := c.newRequest(ctx, method, endpoint, &buf, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) resolve(endpoint string) string {
	if endpoint == "" {
		return c.base.String()
	}
	ref, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return c.base.String() + endpoint
	}
	base := *c.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String()
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 1<<10))
	return strings.TrimSpace(string(b))
}
