package postgres

import (
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

func floatPtrFromPg(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	n := v.Float64
	return &n
}

func pgFloat8FromPtr(n *float64) pgtype.Float8 {
	if n == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *n, Valid: true}
}

// dimensionsFromPg returns nil when neither side is recorded.
func dimensionsFromPg(width, height pgtype.Float8) *domain.Dimensions {
	if !width.Valid && !height.Valid {
		return nil
	}
	return &domain.Dimensions{Width: floatPtrFromPg(width), Height: floatPtrFromPg(height)}
}

func dimensionsToPg(d *domain.Dimensions) (pgtype.Float8, pgtype.Float8) {
	if d == nil {
		return pgtype.Float8{}, pgtype.Float8{}
	}
	return pgFloat8FromPtr(d.Width), pgFloat8FromPtr(d.Height)
}
