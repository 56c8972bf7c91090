package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes recorded by VariantResolutions.
const (
	OutcomeResolved = "resolved"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
)

// BusinessMetrics holds Prometheus metrics for storefront-level observability.
type BusinessMetrics struct {
	// Product engagement
	ProductViews      *prometheus.CounterVec
	ProductListViews  prometheus.Counter
	VariantResolution *prometheus.CounterVec
	SoldOutViews      *prometheus.CounterVec

	// Content
	ContentLookups *prometheus.CounterVec

	// Upstream performance
	UpstreamLatency *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec
}

// NewBusinessMetrics creates business metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "vitrine"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	subsystem := "business"
	factory := promauto.With(reg)

	m := &BusinessMetrics{
		// =======================================================================
		// Product Engagement
		// =======================================================================
		ProductViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail page views",
			},
			[]string{"product_handle"},
		),
		ProductListViews: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_list_views_total",
				Help:      "Total product listing views",
			},
		),
		VariantResolution: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "variant_resolutions_total",
				Help:      "Variant selections by outcome",
			},
			[]string{"outcome"}, // outcome: resolved, not_found, rejected
		),
		SoldOutViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sold_out_views_total",
				Help:      "Product views landing on a sold out variant",
			},
			[]string{"product_handle"},
		),

		// =======================================================================
		// Content
		// =======================================================================
		ContentLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "content_lookups_total",
				Help:      "Content document lookups by result",
			},
			[]string{"result"}, // result: hit, miss, error
		),

		// =======================================================================
		// Upstream Performance
		// =======================================================================
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_duration_seconds",
				Help:      "Upstream call duration (helps differentiate app slowness from backend issues)",
				Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"upstream", "operation"}, // upstream: commerce, content
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_errors_total",
				Help:      "Failed upstream calls by error code",
			},
			[]string{"upstream", "operation", "code"},
		),
	}

	return m
}
