// Package telemetry reports storefront failures to Sentry and records
// product page metrics in Prometheus.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

const flushTimeout = 2 * time.Second

// SentryConfig configures error reporting. Reporting stays off unless
// Enabled is set and DSN is present.
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64 // 0 means 1.0
	TracesSampleRate float64
	Debug            bool
}

var enabled atomic.Bool

// InitSentry starts the Sentry client. The returned func flushes pending
// events and must run before the process exits.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	enabled.Store(false)

	switch {
	case !cfg.Enabled:
		logger.Info("Sentry disabled")
		return func() {}, nil
	case cfg.DSN == "":
		logger.Warn("Sentry enabled without a DSN, error reporting stays off")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
		BeforeSend:       dropClientErrors,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	enabled.Store(true)

	logger.Info("Sentry initialized",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
		"traces_sample_rate", cfg.TracesSampleRate,
	)

	return func() { sentry.Flush(flushTimeout) }, nil
}

// IsEnabled reports whether events are being sent.
func IsEnabled() bool {
	return enabled.Load()
}

// dropClientErrors discards events for errors the shopper caused: an unknown
// handle or an impossible option selection.
func dropClientErrors(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint == nil || hint.OriginalException == nil {
		return event
	}
	switch domain.ErrorCode(hint.OriginalException) {
	case domain.EINVALID, domain.ENOTFOUND:
		return nil
	}
	return event
}

func hubFrom(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// CaptureError reports err on the hub carried by ctx, so request data and
// the active trace are attached when there is one.
func CaptureError(ctx context.Context, err error, extras map[string]any) {
	if !IsEnabled() || err == nil {
		return
	}

	hub := hubFrom(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error.code", domain.ErrorCode(err))
		if op := domain.ErrorOp(err); op != "" {
			scope.SetTag("error.op", op)
		}
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		hub.CaptureException(err)
	})
}

// AddBreadcrumb records a non-fatal event that will accompany the next
// captured error on the same hub.
func AddBreadcrumb(ctx context.Context, category, message string, data map[string]any) {
	if !IsEnabled() {
		return
	}

	hubFrom(ctx).AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Data:     data,
		Level:    sentry.LevelWarning,
	}, nil)
}

// SentryMiddleware gives each request its own hub and transaction. Panics are
// reported and then re-raised for the recovery middleware to answer.
func SentryMiddleware() func(http.Handler) http.Handler {
	h := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return func(next http.Handler) http.Handler {
		wrapped := h.Handle(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}

// HTTPTransport records upstream calls as spans of the request's trace and
// forwards the trace headers.
type HTTPTransport struct {
	Transport http.RoundTripper
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	if !IsEnabled() {
		return next.RoundTrip(req)
	}

	span := sentry.StartSpan(req.Context(), "http.client",
		sentry.WithDescription(req.Method+" "+req.URL.Host+req.URL.Path),
	)
	defer span.Finish()

	out := req.Clone(span.Context())
	out.Header.Set(sentry.SentryTraceHeader, span.ToSentryTrace())
	if baggage := span.ToBaggage(); baggage != "" {
		out.Header.Set(sentry.SentryBaggageHeader, baggage)
	}

	resp, err := next.RoundTrip(out)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}
	span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode)
	span.SetData("http.response.status_code", resp.StatusCode)
	return resp, nil
}
