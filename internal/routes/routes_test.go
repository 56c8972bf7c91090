package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dukerupert/vitrine/internal/router"
)

func named(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name + ":" + r.PathValue("handle")))
	})
}

func TestRegisterStorefrontRoutes(t *testing.T) {
	r := router.New()
	RegisterStorefrontRoutes(r, StorefrontDeps{
		ProductListHandler:   named("list"),
		ProductDetailHandler: named("detail"),
		VariantHandler:       named("variant"),
		Static:               fstest.MapFS{"storefront.css": {Data: []byte("css")}},
	})

	tests := []struct {
		method   string
		path     string
		status   int
		expected string
	}{
		{http.MethodGet, "/products", http.StatusOK, "list:"},
		{http.MethodGet, "/products/tee", http.StatusOK, "detail:tee"},
		{http.MethodGet, "/products/tee/variant", http.StatusOK, "variant:tee"},
		{http.MethodGet, "/static/storefront.css", http.StatusOK, "css"},
		{http.MethodPost, "/products/tee", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/cart", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
			if tt.expected != "" && w.Body.String() != tt.expected {
				t.Errorf("expected body %q, got %q", tt.expected, w.Body.String())
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		checks   []HealthCheck
		status   int
		contains string
	}{
		{"no checks", nil, http.StatusOK, `"ok"`},
		{
			name: "passing check",
			checks: []HealthCheck{{Name: "cache", Check: func(ctx context.Context) error {
				return nil
			}}},
			status:   http.StatusOK,
			contains: `"ok"`,
		},
		{
			name: "failing check",
			checks: []HealthCheck{
				{Name: "cache", Check: func(ctx context.Context) error { return nil }},
				{Name: "content", Check: func(ctx context.Context) error { return errors.New("connection refused") }},
			},
			status:   http.StatusServiceUnavailable,
			contains: `"content":"connection refused"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := router.New()
			RegisterSystemRoutes(r, SystemDeps{HealthChecks: tt.checks})

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("expected body to contain %s, got %s", tt.contains, w.Body.String())
			}
		})
	}
}
