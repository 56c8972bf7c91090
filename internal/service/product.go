package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/vitrine/internal/commerce"
	"github.com/dukerupert/vitrine/internal/content"
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/merchandise"
	"github.com/dukerupert/vitrine/internal/telemetry"
	"github.com/dukerupert/vitrine/internal/variant"
	"golang.org/x/sync/errgroup"
)

// DefaultListSize is the number of products shown on the listing page.
const DefaultListSize = 24

// ProductPageService provides the product detail and listing pages
type ProductPageService interface {
	GetProductPage(ctx context.Context, handle string, selections map[string]string) (*ProductPage, error)
	ListProductCards(ctx context.Context) ([]merchandise.Card, error)
}

// ProductSummary is the descriptive part of a product page
type ProductSummary struct {
	ID              string `json:"id"`
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	Vendor          string `json:"vendor,omitempty"`
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
}

// ProductPage aggregates everything the product detail page renders
type ProductPage struct {
	Product      ProductSummary            `json:"product"`
	Options      []domain.Option           `json:"options"`
	Controls     []variant.Control         `json:"controls"`
	Snapshot     merchandise.Snapshot      `json:"snapshot"`
	Gallery      []merchandise.GalleryItem `json:"gallery"`
	PrimaryImage *domain.Image             `json:"primaryImage,omitempty"`
	Body         []domain.ContentBlock     `json:"body,omitempty"`
	SEO          domain.SEO                `json:"seo"`
}

// ProductPageConfig configures the product page service
type ProductPageConfig struct {
	Policy   merchandise.Policy
	ListSize int
}

type productPageService struct {
	catalog  commerce.Catalog
	content  content.Source
	policy   merchandise.Policy
	listSize int
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

// NewProductPageService creates a new ProductPageService instance.
// A nil content source behaves as one with no documents; nil metrics are not recorded.
func NewProductPageService(catalog commerce.Catalog, source content.Source, cfg ProductPageConfig, metrics *telemetry.BusinessMetrics, logger *slog.Logger) ProductPageService {
	if source == nil {
		source = content.Nop{}
	}
	if cfg.ListSize <= 0 {
		cfg.ListSize = DefaultListSize
	}

	return &productPageService{
		catalog:  catalog,
		content:  source,
		policy:   cfg.Policy,
		listSize: cfg.ListSize,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetProductPage loads a product and its content concurrently, applies the
// shopper's selections in declared option order and projects the result.
//
// Content is supplemental: a failed lookup is logged and the page renders
// without it.
func (s *productPageService) GetProductPage(ctx context.Context, handle string, selections map[string]string) (*ProductPage, error) {
	if handle == "" {
		return nil, ErrMissingHandle
	}

	var (
		product *domain.Product
		doc     *domain.ContentDocument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		p, err := s.catalog.GetProductByHandle(gctx, handle)
		s.observeUpstream("commerce", "product", start, err)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		d, err := s.content.GetProductContent(gctx, handle)
		s.observeUpstream("content", "product", start, err)
		if err != nil {
			s.logger.Warn("content lookup failed, rendering without it",
				"handle", handle,
				"error", err,
			)
			s.countContent("error")
			telemetry.AddBreadcrumb(ctx, "content", "lookup failed", map[string]any{
				"handle": handle,
				"error":  err.Error(),
			})
			return nil
		}
		if d == nil {
			s.countContent("miss")
		} else {
			s.countContent("hit")
		}
		doc = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx, err := variant.NewIndex(product.Options, product.Variants)
	if err != nil {
		s.logger.Error("product data rejected",
			"handle", handle,
			"error", err,
		)
		return nil, err
	}

	projector := merchandise.NewProjector(doc.Index(), s.policy)
	selector := variant.NewSelector(idx, projector)
	if len(selections) > 0 {
		if err := selector.SetOptions(selections); err != nil {
			s.countResolution(telemetry.OutcomeRejected)
			return nil, err
		}
	}

	snapshot := projector.Snapshot()
	s.recordView(handle, snapshot)

	page := &ProductPage{
		Product: ProductSummary{
			ID:              product.ID,
			Handle:          product.Handle,
			Title:           product.Title,
			Vendor:          product.Vendor,
			DescriptionHTML: product.DescriptionHTML,
		},
		Options:      idx.Options(),
		Controls:     selector.Controls(),
		Snapshot:     snapshot,
		Gallery:      merchandise.LayoutGallery(product.Media),
		PrimaryImage: merchandise.PrimaryImage(snapshot.Variant, product.Media),
		SEO:          product.SEO,
	}
	if doc != nil {
		page.Body = doc.Body
	}

	return page, nil
}

// ListProductCards returns listing tiles for the first page of products
func (s *productPageService) ListProductCards(ctx context.Context) ([]merchandise.Card, error) {
	start := time.Now()
	products, err := s.catalog.ListProducts(ctx, s.listSize)
	s.observeUpstream("commerce", "products", start, err)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ProductListViews.Inc()
	}

	cards := make([]merchandise.Card, len(products))
	for i, p := range products {
		cards[i] = merchandise.NewCard(p)
	}
	return cards, nil
}

func (s *productPageService) recordView(handle string, snap merchandise.Snapshot) {
	if s.metrics == nil {
		return
	}
	s.metrics.ProductViews.WithLabelValues(handle).Inc()
	if snap.Purchasable {
		s.countResolution(telemetry.OutcomeResolved)
	} else {
		s.countResolution(telemetry.OutcomeNotFound)
	}
	if snap.IsOutOfStock {
		s.metrics.SoldOutViews.WithLabelValues(handle).Inc()
	}
}

func (s *productPageService) countResolution(outcome string) {
	if s.metrics != nil {
		s.metrics.VariantResolution.WithLabelValues(outcome).Inc()
	}
}

func (s *productPageService) countContent(result string) {
	if s.metrics != nil {
		s.metrics.ContentLookups.WithLabelValues(result).Inc()
	}
}

func (s *productPageService) observeUpstream(upstream, operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.UpstreamLatency.WithLabelValues(upstream, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.UpstreamErrors.WithLabelValues(upstream, operation, domain.ErrorCode(err)).Inc()
	}
}
