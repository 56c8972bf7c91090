package storefront

import (
	"net/http"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/merchandise"
	"github.com/dukerupert/vitrine/internal/service"
	"github.com/dukerupert/vitrine/internal/variant"
)

// ProductListHandler handles the product listing page
type ProductListHandler struct {
	productService service.ProductPageService
	renderer       *handler.Renderer
}

// NewProductListHandler creates a new product list handler.
// A nil renderer serves JSON only.
func NewProductListHandler(productService service.ProductPageService, renderer *handler.Renderer) *ProductListHandler {
	return &ProductListHandler{
		productService: productService,
		renderer:       renderer,
	}
}

// ServeHTTP handles GET /products
func (h *ProductListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cards, err := h.productService.ListProductCards(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if wantsHTML(r, h.renderer) {
		h.renderer.RenderHTTP(w, r, "storefront/products", cards)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"products": cards,
	})
}

// ProductDetailHandler handles the product detail page
type ProductDetailHandler struct {
	productService service.ProductPageService
	renderer       *handler.Renderer
}

// NewProductDetailHandler creates a new product detail handler.
// A nil renderer serves JSON only.
func NewProductDetailHandler(productService service.ProductPageService, renderer *handler.Renderer) *ProductDetailHandler {
	return &ProductDetailHandler{
		productService: productService,
		renderer:       renderer,
	}
}

// ServeHTTP handles GET /products/{handle}
func (h *ProductDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		handler.NotFoundResponse(w, r)
		return
	}

	page, err := h.productService.GetProductPage(r.Context(), handle, ParseSelections(r.URL.Query()))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if wantsHTML(r, h.renderer) {
		h.renderer.RenderHTTP(w, r, "storefront/product", page)
		return
	}

	handler.WriteJSON(w, http.StatusOK, page)
}

// VariantResponse is the slice of the product page that changes when the
// shopper picks a different option value.
type VariantResponse struct {
	Controls     []variant.Control    `json:"controls"`
	Snapshot     merchandise.Snapshot `json:"snapshot"`
	PrimaryImage *domain.Image        `json:"primaryImage,omitempty"`
}

// VariantHandler answers selection changes without re-sending the whole page
type VariantHandler struct {
	productService service.ProductPageService
}

// NewVariantHandler creates a new variant handler
func NewVariantHandler(productService service.ProductPageService) *VariantHandler {
	return &VariantHandler{productService: productService}
}

// ServeHTTP handles GET /products/{handle}/variant
func (h *VariantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		handler.NotFoundResponse(w, r)
		return
	}

	page, err := h.productService.GetProductPage(r.Context(), handle, ParseSelections(r.URL.Query()))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, VariantResponse{
		Controls:     page.Controls,
		Snapshot:     page.Snapshot,
		PrimaryImage: page.PrimaryImage,
	})
}
