package routes

import (
	"github.com/dukerupert/vitrine/internal/router"
)

// RegisterStorefrontRoutes registers the customer-facing product routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	if deps.Static != nil {
		r.StaticFS("/static/", deps.Static)
	}

	// Product browsing
	r.Handle("GET", "/products", deps.ProductListHandler)
	r.Handle("GET", "/products/{handle}", deps.ProductDetailHandler)

	// Selection changes from headless clients
	r.Handle("GET", "/products/{handle}/variant", deps.VariantHandler)
}
