package routes

import (
	"context"
	"io/fs"
	"net/http"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Products
	ProductListHandler   http.Handler
	ProductDetailHandler http.Handler
	VariantHandler       http.Handler

	// Static assets (stylesheets); nil disables /static/
	Static fs.FS
}

// HealthCheck probes one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemDeps contains dependencies for operational routes
type SystemDeps struct {
	MetricsHandler http.Handler
	HealthChecks   []HealthCheck
}
