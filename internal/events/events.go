// Package events listens for catalog change notifications on NATS. Product
// notifications evict cached commerce payloads so edits show up before the
// cache TTL runs out; content notifications carry a full content document
// that is written to the local content store.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/nats-io/nats.go"
)

const (
	// DefaultSubject is where product change notifications are published.
	DefaultSubject = "vitrine.product.updated"

	// DefaultContentSubject is where content documents are published.
	DefaultContentSubject = "vitrine.content.updated"
)

const handleTimeout = 5 * time.Second

// ProductUpdated is the product notification payload.
type ProductUpdated struct {
	Handle string `json:"handle"`
}

// Invalidator evicts cached data for a product handle.
type Invalidator interface {
	Invalidate(ctx context.Context, handle string) error
}

// ContentStore persists a content document with its variant records.
type ContentStore interface {
	SaveProductContent(ctx context.Context, doc *domain.ContentDocument) error
}

// Handler processes one message payload.
type Handler func(ctx context.Context, data []byte) error

// Config configures the NATS connection.
type Config struct {
	URL  string
	Name string
}

// Subscriber owns the NATS connection and its subscriptions.
type Subscriber struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

// Connect dials NATS. The connection reconnects forever.
func Connect(cfg Config, logger *slog.Logger) (*Subscriber, error) {
	name := cfg.Name
	if name == "" {
		name = "vitrine"
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &Subscriber{conn: conn, logger: logger}, nil
}

// Listen runs h for every message on subject. Failed messages are logged
// and dropped.
func (s *Subscriber) Listen(subject string, h Handler) error {
	if s.conn == nil {
		return errors.New("nats: not connected")
	}

	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		if err := h(ctx, msg.Data); err != nil {
			s.logger.Warn("notification dropped", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	s.subs = append(s.subs, sub)
	s.logger.Info("Listening for notifications", "subject", subject)
	return nil
}

// InvalidateProducts decodes product notifications and evicts the product
// each one names.
func InvalidateProducts(inv Invalidator, logger *slog.Logger) Handler {
	return func(ctx context.Context, data []byte) error {
		const op = "events.product"

		var evt ProductUpdated
		if err := json.Unmarshal(data, &evt); err != nil {
			return domain.Invalid(op, "notification is not valid JSON")
		}

		handle := strings.TrimSpace(evt.Handle)
		if handle == "" {
			return domain.Invalid(op, "notification has no handle")
		}

		if err := inv.Invalidate(ctx, handle); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", handle, err)
		}

		logger.Debug("product cache invalidated", "handle", handle)
		return nil
	}
}

// SyncContent decodes content documents and saves them to store.
func SyncContent(store ContentStore, logger *slog.Logger) Handler {
	return func(ctx context.Context, data []byte) error {
		var doc domain.ContentDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return domain.Invalid("events.content", "content document is not valid JSON")
		}

		if err := store.SaveProductContent(ctx, &doc); err != nil {
			return fmt.Errorf("failed to save content for %s: %w", doc.Slug, err)
		}

		logger.Debug("product content saved", "slug", doc.Slug, "variants", len(doc.Variants))
		return nil
	}
}

// Check reports whether the connection is up, for health checks.
func (s *Subscriber) Check(context.Context) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return errors.New("nats: not connected")
	}
	return nil
}

// Close drains the subscriptions and closes the connection.
func (s *Subscriber) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Drain()
}
