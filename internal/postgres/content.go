package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dukerupert/vitrine/internal/content"
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of *pgxpool.Pool used by the content source.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContentSource implements content.Source using PostgreSQL.
type ContentSource struct {
	db DBTX
}

// Compile-time check that ContentSource implements content.Source.
var _ content.Source = (*ContentSource)(nil)

// NewContentSource creates a new PostgreSQL-backed content source.
func NewContentSource(db DBTX) *ContentSource {
	return &ContentSource{db: db}
}

const getProductContent = `
SELECT id, gid, slug, available, body
FROM product_content
WHERE slug = $1`

const listVariantContent = `
SELECT variant_id, width_mm, height_mm
FROM variant_content
WHERE product_id = $1
ORDER BY position, variant_id`

// GetProductContent returns the document for slug with its variant records,
// or nil when no document exists.
func (s *ContentSource) GetProductContent(ctx context.Context, slug string) (*domain.ContentDocument, error) {
	const op = "content.get"

	var (
		doc  domain.ContentDocument
		body []byte
	)
	err := s.db.QueryRow(ctx, getProductContent, slug).Scan(&doc.ID, &doc.GID, &doc.Slug, &doc.Available, &body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Internal(err, op, "failed to get product content")
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc.Body); err != nil {
			return nil, domain.WrapError(err, domain.EINTEGRITY, op, "product content body is not a block list")
		}
	}

	rows, err := s.db.Query(ctx, listVariantContent, doc.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list variant content")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec           domain.ContentRecord
			width, height pgtype.Float8
		)
		if err := rows.Scan(&rec.VariantID, &width, &height); err != nil {
			return nil, domain.Internal(err, op, "failed to scan variant content")
		}
		rec.Dimensions = dimensionsFromPg(width, height)
		doc.Variants = append(doc.Variants, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to list variant content")
	}

	return &doc, nil
}

const upsertProductContent = `
INSERT INTO product_content (id, gid, slug, available, body)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    gid = EXCLUDED.gid,
    slug = EXCLUDED.slug,
    available = EXCLUDED.available,
    body = EXCLUDED.body,
    updated_at = NOW()`

const upsertVariantContent = `
INSERT INTO variant_content (variant_id, product_id, position, width_mm, height_mm)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (variant_id) DO UPDATE SET
    product_id = EXCLUDED.product_id,
    position = EXCLUDED.position,
    width_mm = EXCLUDED.width_mm,
    height_mm = EXCLUDED.height_mm,
    updated_at = NOW()`

const deleteStaleVariantContent = `
DELETE FROM variant_content
WHERE product_id = $1 AND NOT (variant_id = ANY($2))`

// SaveProductContent replaces doc and its variant records in one transaction.
// Records for variants no longer listed in doc are removed.
func (s *ContentSource) SaveProductContent(ctx context.Context, doc *domain.ContentDocument) error {
	const op = "content.save"

	if doc == nil || doc.ID == "" || doc.Slug == "" {
		return domain.Invalid(op, "content document requires an id and slug")
	}

	body := doc.Body
	if body == nil {
		body = []domain.ContentBlock{}
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return domain.Internal(err, op, "failed to encode content body")
	}

	keep := make([]string, 0, len(doc.Variants))
	for _, rec := range doc.Variants {
		if rec.VariantID != "" {
			keep = append(keep, rec.VariantID)
		}
	}

	err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertProductContent, doc.ID, doc.GID, doc.Slug, doc.Available, encoded); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteStaleVariantContent, doc.ID, keep); err != nil {
			return err
		}
		for i, rec := range doc.Variants {
			if rec.VariantID == "" {
				continue
			}
			width, height := dimensionsToPg(rec.Dimensions)
			if _, err := tx.Exec(ctx, upsertVariantContent, rec.VariantID, doc.ID, i, width, height); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Internal(err, op, "failed to save product content")
	}

	return nil
}
