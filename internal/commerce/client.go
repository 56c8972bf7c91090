// Package commerce reads products from the commerce backend's storefront
// GraphQL API.
package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/vitrine/internal/domain"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// AccessTokenHeader carries the public storefront token.
const AccessTokenHeader = "X-Shopify-Storefront-Access-Token"

//go:generate mockgen -source=client.go -destination=mock_catalog.go -package=commerce

// Catalog is the read side of the commerce backend used by product pages.
type Catalog interface {
	GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	ListProducts(ctx context.Context, first int) ([]domain.Product, error)
}

// Config configures the storefront client.
type Config struct {
	StoreDomain       string
	StorefrontToken   string
	APIVersion        string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond int

	// BaseURL overrides "https://" + StoreDomain (tests, local proxies).
	BaseURL string

	// Transport replaces the default round tripper when set.
	Transport http.RoundTripper
}

// Client talks to the storefront GraphQL endpoint.
type Client struct {
	http     *resty.Client
	rl       ratelimit.Limiter
	endpoint string
	logger   *slog.Logger
}

var _ Catalog = (*Client)(nil)

// NewClient creates a storefront client with retries and client-side rate limiting.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://" + cfg.StoreDomain
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}

	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.MaxRetries).
		SetAllowNonIdempotentRetry(true). // queries are read-only POSTs
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(AccessTokenHeader, cfg.StorefrontToken)

	if cfg.Transport != nil {
		rc.SetTransport(cfg.Transport)
	}

	return &Client{
		http:     rc,
		rl:       ratelimit.New(rps),
		endpoint: fmt.Sprintf("%s/api/%s/graphql.json", strings.TrimSuffix(base, "/"), cfg.APIVersion),
		logger:   logger,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// GetProductByHandle fetches a product with its options, variants and media.
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	const op = "commerce.product"

	var resp gqlResponse[productData]
	if err := c.query(ctx, op, productQuery, map[string]any{"handle": handle}, &resp); err != nil {
		return nil, err
	}

	if resp.Data.Product == nil {
		return nil, domain.NotFound(op, "product", handle)
	}

	return resp.Data.Product.toDomain()
}

// ListProducts fetches the first n products with their first variant.
func (c *Client) ListProducts(ctx context.Context, first int) ([]domain.Product, error) {
	const op = "commerce.products"

	var resp gqlResponse[productsData]
	if err := c.query(ctx, op, productsQuery, map[string]any{"first": first}, &resp); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(resp.Data.Products.Nodes))
	for _, n := range resp.Data.Products.Nodes {
		p, err := n.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// query posts a GraphQL document and decodes the envelope into out.
// Transport failures are EUNAVAILABLE, undecodable bodies EINTEGRITY and
// GraphQL errors EINTERNAL.
func (c *Client) query(ctx context.Context, op, query string, vars map[string]any, out interface{ errs() []gqlError }) error {
	c.rl.Take()

	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(gqlRequest{Query: query, Variables: vars}).
		SetResult(out).
		Post(c.endpoint)
	if err != nil {
		if isDecodeError(err) {
			return domain.WrapError(err, domain.EINTEGRITY, op, "commerce response is malformed")
		}
		return domain.Unavailable(err, op, "commerce backend unreachable")
	}

	c.logger.Debug("commerce query",
		"op", op,
		"status", res.StatusCode(),
		"duration", time.Since(start),
	)

	if res.IsError() {
		return domain.Unavailable(fmt.Errorf("HTTP error: %s", res.Status()), op, "commerce backend returned an error")
	}

	if errs := out.errs(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Message
		}
		return domain.Internal(fmt.Errorf("graphql: %s", strings.Join(msgs, "; ")), op, "commerce query failed")
	}

	return nil
}

func (r *gqlResponse[T]) errs() []gqlError { return r.Errors }

func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
