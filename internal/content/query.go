package content

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
	"resty.dev/v3"
)

// productQuery selects the product document whose store handle matches $slug,
// with the variant references dereferenced down to id and dimensions.
const productQuery = `*[
  _type == 'product'
  && store.slug.current == $slug
][0]{
  _id,
  "available": !store.isDeleted && store.status == 'active',
  "gid": store.gid,
  "slug": store.slug.current,
  body,
  "variants": store.variants[]->{
    "id": store.gid,
    dimensions
  }
}`

// QueryConfig configures the hosted content backend's HTTP query API.
type QueryConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	Timeout    time.Duration

	// BaseURL overrides the project host derived from ProjectID and UseCDN.
	BaseURL string

	// Transport replaces the default round tripper when set.
	Transport http.RoundTripper
}

// QueryClient is a Source backed by the content backend's query API.
type QueryClient struct {
	http     *resty.Client
	endpoint string
	logger   *slog.Logger
}

var _ Source = (*QueryClient)(nil)

type queryResponse struct {
	Result *domain.ContentDocument `json:"result"`
}

type queryError struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
}

func NewQueryClient(cfg QueryConfig, logger *slog.Logger) *QueryClient {
	base := cfg.BaseURL
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCDN && cfg.Token == "" {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, host)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "v2021-10-21"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}

	if cfg.Transport != nil {
		rc.SetTransport(cfg.Transport)
	}

	return &QueryClient{
		http:     rc,
		endpoint: fmt.Sprintf("%s/%s/data/query/%s", strings.TrimSuffix(base, "/"), apiVersion, cfg.Dataset),
		logger:   logger,
	}
}

func (c *QueryClient) Close() error {
	return c.http.Close()
}

// GetProductContent runs the product query with $slug bound to slug.
func (c *QueryClient) GetProductContent(ctx context.Context, slug string) (*domain.ContentDocument, error) {
	const op = "content.query"

	// Query parameters are JSON literals.
	param, err := json.Marshal(slug)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode query parameter")
	}

	var (
		out     queryResponse
		failure queryError
	)
	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", productQuery).
		SetQueryParam("$slug", string(param)).
		SetResult(&out).
		SetError(&failure).
		Get(c.endpoint)
	if err != nil {
		if isDecodeError(err) {
			return nil, domain.WrapError(err, domain.EINTEGRITY, op, "content document is malformed")
		}
		return nil, domain.Unavailable(err, op, "content backend unreachable")
	}

	c.logger.Debug("content query",
		"slug", slug,
		"status", res.StatusCode(),
		"duration", time.Since(start),
	)

	if res.IsError() {
		return nil, domain.Unavailable(
			fmt.Errorf("HTTP error: %d %s", res.StatusCode(), failure.Error.Description),
			op, "content backend returned an error")
	}

	return out.Result, nil
}

// isDecodeError reports whether err came from decoding the response body
// rather than from the transport.
func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
