// Package backend is the HTTP client for the management backend that owns
// all business data: catalogs, stock levels, and sale creation. The terminal
// never persists any of it; everything is fetched per request.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
	"github.com/kmdiallo/gescom-pos/internal/domain/stock"
)

// Config holds the settings for a backend Client.
type Config struct {
	// BaseURL is the root of the backend API, e.g. https://api.example.com/api.
	BaseURL string
	// Token is the backend API token, sent as "Authorization: Token <token>".
	// Empty means unauthenticated requests.
	Token string
	// Timeout bounds every backend call. Zero falls back to 10 seconds.
	Timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithTransport replaces the underlying round tripper. The transport is still
// wrapped with otelhttp instrumentation.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// Client is the typed REST client for the backend resource surface.
type Client struct {
	base      *url.URL
	token     string
	transport http.RoundTripper
	http      *http.Client
}

var (
	_ catalog.Source = (*Client)(nil)
	_ stock.Provider = (*Client)(nil)
	_ sale.Submitter = (*Client)(nil)
)

// New creates a Client for the given backend.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse backend URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("backend URL %q is not absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		base:      base,
		token:     cfg.Token,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(c.transport),
	}
	return c, nil
}

// Products fetches the product catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var dtos []produitDTO
	if err := c.get(ctx, "produits/", nil, &dtos); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	out := make([]catalog.Product, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Product fetches a single product by its identifier.
func (c *Client) Product(ctx context.Context, id int64) (*catalog.Product, error) {
	var dto produitDTO
	if err := c.get(ctx, "produits/"+strconv.FormatInt(id, 10)+"/", nil, &dto); err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	p := dto.toDomain()
	return &p, nil
}

// Clients fetches the registered customers.
func (c *Client) Clients(ctx context.Context) ([]catalog.Client, error) {
	var dtos []clientDTO
	if err := c.get(ctx, "clients/", nil, &dtos); err != nil {
		return nil, errors.Wrap(err, "list clients")
	}
	out := make([]catalog.Client, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Warehouses fetches the stock-holding locations.
func (c *Client) Warehouses(ctx context.Context) ([]catalog.Warehouse, error) {
	var dtos []entrepotDTO
	if err := c.get(ctx, "entrepots/", nil, &dtos); err != nil {
		return nil, errors.Wrap(err, "list warehouses")
	}
	out := make([]catalog.Warehouse, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// ProductStock fetches the availability snapshot for a product across all
// warehouses.
func (c *Client) ProductStock(ctx context.Context, productID int64) ([]stock.Availability, error) {
	query := url.Values{"produit": []string{strconv.FormatInt(productID, 10)}}
	var resp stockDisponibleResponse
	if err := c.get(ctx, "stock-disponible/", query, &resp); err != nil {
		return nil, errors.Wrapf(err, "stock for product %d", productID)
	}
	out := make([]stock.Availability, len(resp.Stocks))
	for i, d := range resp.Stocks {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Availability returns the snapshot for one (product, warehouse) pair. A
// warehouse absent from the backend's report holds zero stock.
func (c *Client) Availability(ctx context.Context, productID, warehouseID int64) (stock.Availability, error) {
	all, err := c.ProductStock(ctx, productID)
	if err != nil {
		return stock.Availability{}, err
	}
	for _, a := range all {
		if a.WarehouseID == warehouseID {
			return a, nil
		}
	}
	return stock.Availability{WarehouseID: warehouseID}, nil
}

// SubmitSale posts a finalized sale to the order-creation endpoint. Every
// submission carries a fresh Idempotency-Key so a manual retry of the same
// request after a network failure cannot double-create the order.
func (c *Client) SubmitSale(ctx context.Context, s *sale.Sale) error {
	body, err := json.Marshal(venteFromSale(s))
	if err != nil {
		return errors.Wrap(err, "encode sale")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "ventes/", nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "create sale")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Ping performs a cheap authenticated read, used as a readiness check.
func (c *Client) Ping(ctx context.Context) error {
	var dtos []entrepotDTO
	return c.get(ctx, "entrepots/", nil, &dtos)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	return req, nil
}

// readAPIError drains the response body (bounded) and extracts the backend's
// error message.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return parseAPIError(resp.StatusCode, body)
}
