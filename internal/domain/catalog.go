// Package domain holds the storefront catalog types and the coded errors
// shared by every layer.
package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMMERCE TYPES
// =============================================================================

// Money is a raw amount in a currency. Formatting is left to presentation.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// Option is a named product dimension with an ordered list of permitted values.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// HasValue reports whether value is one of the option's permitted values.
func (o Option) HasValue(value string) bool {
	for _, v := range o.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Image is a hosted image reference.
type Image struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Variant is one purchasable combination of option values.
type Variant struct {
	ID               string            `json:"id"`
	Title            string            `json:"title,omitempty"`
	SKU              string            `json:"sku,omitempty"`
	SelectedOptions  map[string]string `json:"selectedOptions"`
	Price            Money             `json:"price"`
	CompareAtPrice   *Money            `json:"compareAtPrice,omitempty"`
	AvailableForSale bool              `json:"availableForSale"`
	Image            *Image            `json:"image,omitempty"`
}

// MediaContentType tags a media item with its kind.
type MediaContentType string

const (
	MediaImage         MediaContentType = "IMAGE"
	MediaVideo         MediaContentType = "VIDEO"
	MediaModel3D       MediaContentType = "MODEL_3D"
	MediaExternalVideo MediaContentType = "EXTERNAL_VIDEO"
)

// MediaSource is one encoding of a video or 3-D model.
type MediaSource struct {
	MimeType string `json:"mimeType"`
	URL      string `json:"url"`
}

// Media is a gallery item attached to a product.
type Media struct {
	ID           string           `json:"id"`
	ContentType  MediaContentType `json:"mediaContentType"`
	Alt          string           `json:"alt,omitempty"`
	PreviewImage *Image           `json:"previewImage,omitempty"`

	// Type-specific fields
	Image    *Image        `json:"image,omitempty"`
	Sources  []MediaSource `json:"sources,omitempty"`
	EmbedURL string        `json:"embedUrl,omitempty"`
	Host     string        `json:"host,omitempty"`
}

// SEO carries the search metadata of a product.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Product is the commerce payload for a product detail page.
// Options and Variants keep the order the commerce backend returned them in.
type Product struct {
	ID              string    `json:"id"`
	Handle          string    `json:"handle"`
	Title           string    `json:"title"`
	Vendor          string    `json:"vendor,omitempty"`
	DescriptionHTML string    `json:"descriptionHtml,omitempty"`
	Options         []Option  `json:"options"`
	Variants        []Variant `json:"variants"`
	Media           []Media   `json:"media"`
	SEO             SEO       `json:"seo"`
}

// =============================================================================
// CONTENT TYPES
// =============================================================================

// Dimensions are physical measurements in millimetres. Either side may be unset.
type Dimensions struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Label returns the "W mm x H mm" badge text, or "" unless both sides are set.
func (d *Dimensions) Label() string {
	if d == nil || d.Width == nil || d.Height == nil {
		return ""
	}
	return millimetres(*d.Width) + " x " + millimetres(*d.Height)
}

func millimetres(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "mm"
}

// ContentRecord holds editorial attributes for a single variant.
type ContentRecord struct {
	VariantID  string      `json:"id"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// ContentDocument is the content backend's document for a product.
type ContentDocument struct {
	ID        string          `json:"_id"`
	GID       string          `json:"gid,omitempty"`
	Slug      string          `json:"slug"`
	Available bool            `json:"available"`
	Body      []ContentBlock  `json:"body,omitempty"`
	Variants  []ContentRecord `json:"variants,omitempty"`
}

// ContentBlock is an opaque rich-text block passed through to presentation.
type ContentBlock map[string]any

// ContentIndex maps variant ID to its content record. A nil index is valid
// and misses every lookup.
type ContentIndex map[string]ContentRecord

// Lookup returns the record for variantID, if any.
func (ci ContentIndex) Lookup(variantID string) (ContentRecord, bool) {
	rec, ok := ci[variantID]
	return rec, ok
}

// Index builds a ContentIndex from the document's variant records.
// A nil document yields a nil index.
func (d *ContentDocument) Index() ContentIndex {
	if d == nil || len(d.Variants) == 0 {
		return nil
	}
	idx := make(ContentIndex, len(d.Variants))
	for _, rec := range d.Variants {
		if rec.VariantID == "" {
			continue
		}
		idx[rec.VariantID] = rec
	}
	return idx
}
