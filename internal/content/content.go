// Package content reads the editorial side of a product: rich-text body and
// per-variant records such as physical dimensions.
package content

import (
	"context"

	"github.com/dukerupert/vitrine/internal/domain"
)

//go:generate mockgen -source=content.go -destination=mock_source.go -package=content

// Source looks up the content document for a product by its handle.
// A product with no document yields (nil, nil).
type Source interface {
	GetProductContent(ctx context.Context, slug string) (*domain.ContentDocument, error)
}

// Nop is a Source with no documents.
type Nop struct{}

func (Nop) GetProductContent(context.Context, string) (*domain.ContentDocument, error) {
	return nil, nil
}
