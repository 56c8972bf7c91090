// Package merchandise derives what a product page shows for the active
// variant: price, discount, availability, purchase actions and content.
package merchandise

import (
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/variant"
)

// Availability values.
const (
	AvailabilityInStock     = "in_stock"
	AvailabilitySoldOut     = "sold_out"
	AvailabilityUnavailable = "unavailable" // selection matches no variant
)

// DefaultBackorderMessage is shown next to a sold-out variant when no
// message is configured.
const DefaultBackorderMessage = "Available in 2-3 weeks"

// Policy holds the copy used for purchase actions. It is configuration,
// not derived from variant data.
type Policy struct {
	BackorderMessage string
	AddToCartLabel   string
	SoldOutLabel     string
	BuyNowLabel      string
}

// DefaultPolicy returns the storefront's standard copy.
func DefaultPolicy() Policy {
	return Policy{
		BackorderMessage: DefaultBackorderMessage,
		AddToCartLabel:   "Add to cart",
		SoldOutLabel:     "Sold out",
		BuyNowLabel:      "Buy it now",
	}
}

// Action describes how a purchase control renders.
type Action struct {
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Label   string `json:"label,omitempty"`
}

// Snapshot is everything presentation needs about the current selection.
// It is recomputed from scratch on every selection change.
type Snapshot struct {
	Selection   variant.Selection `json:"selection"`
	Purchasable bool              `json:"purchasable"`
	Variant     *domain.Variant   `json:"variant,omitempty"`

	Price          *domain.Money `json:"price,omitempty"`
	CompareAtPrice *domain.Money `json:"compareAtPrice,omitempty"`
	IsDiscounted   bool          `json:"isDiscounted"`

	IsOutOfStock        bool   `json:"isOutOfStock"`
	Availability        string `json:"availability"`
	AvailabilityMessage string `json:"availabilityMessage,omitempty"`

	AddToCart Action `json:"addToCart"`
	BuyNow    Action `json:"buyNow"`

	Content         *domain.ContentRecord `json:"content,omitempty"`
	DimensionsLabel string                `json:"dimensionsLabel,omitempty"`
}

// Project derives the snapshot for a resolution. It is pure: the content
// index is passed in and never mutated.
func Project(res variant.Resolution, content domain.ContentIndex, policy Policy) Snapshot {
	snap := Snapshot{Selection: res.Selection}

	if !res.Found() {
		snap.Availability = AvailabilityUnavailable
		return snap
	}

	v := *res.Variant
	snap.Purchasable = true
	snap.Variant = &v

	price := v.Price
	snap.Price = &price
	if v.CompareAtPrice != nil {
		compareAt := *v.CompareAtPrice
		snap.CompareAtPrice = &compareAt
	}
	snap.IsDiscounted = IsDiscounted(v.Price, v.CompareAtPrice)

	snap.IsOutOfStock = !v.AvailableForSale
	if snap.IsOutOfStock {
		snap.Availability = AvailabilitySoldOut
		snap.AvailabilityMessage = policy.BackorderMessage
		// kept on the page, disabled, so layout and messaging stay stable
		snap.AddToCart = Action{Visible: true, Enabled: false, Label: policy.SoldOutLabel}
		snap.BuyNow = Action{}
	} else {
		snap.Availability = AvailabilityInStock
		snap.AddToCart = Action{Visible: true, Enabled: true, Label: policy.AddToCartLabel}
		snap.BuyNow = Action{Visible: true, Enabled: true, Label: policy.BuyNowLabel}
	}

	if rec, ok := content.Lookup(v.ID); ok {
		snap.Content = &rec
		snap.DimensionsLabel = rec.Dimensions.Label()
	}

	return snap
}

// IsDiscounted reports whether compareAt is a strictly higher price in the
// same currency. A missing or equal reference price is never a discount.
func IsDiscounted(price domain.Money, compareAt *domain.Money) bool {
	if compareAt == nil {
		return false
	}
	if compareAt.CurrencyCode != price.CurrencyCode {
		return false
	}
	return compareAt.Amount.GreaterThan(price.Amount)
}

// PrimaryImage picks the image shown first: the variant's own image, else
// the first media preview, else nil.
func PrimaryImage(v *domain.Variant, media []domain.Media) *domain.Image {
	if v != nil && v.Image != nil {
		return v.Image
	}
	for _, m := range media {
		if m.PreviewImage != nil {
			return m.PreviewImage
		}
	}
	return nil
}

// Projector keeps the latest snapshot in step with a variant.Selector.
type Projector struct {
	content domain.ContentIndex
	policy  Policy
	latest  Snapshot
}

// NewProjector returns an observer that projects every resolution against content.
func NewProjector(content domain.ContentIndex, policy Policy) *Projector {
	return &Projector{content: content, policy: policy}
}

// OnResolve implements variant.Observer.
func (p *Projector) OnResolve(res variant.Resolution) {
	p.latest = Project(res, p.content, p.policy)
}

// Snapshot returns the most recent projection.
func (p *Projector) Snapshot() Snapshot {
	return p.latest
}
