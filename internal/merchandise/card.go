package merchandise

import "github.com/dukerupert/vitrine/internal/domain"

// Card is the listing tile for a product, priced from its first variant.
type Card struct {
	Handle         string        `json:"handle"`
	Title          string        `json:"title"`
	Price          *domain.Money `json:"price,omitempty"`
	CompareAtPrice *domain.Money `json:"compareAtPrice,omitempty"`
	OnSale         bool          `json:"onSale"`
	Image          *domain.Image `json:"image,omitempty"`
}

// NewCard builds the listing tile for p.
func NewCard(p domain.Product) Card {
	c := Card{Handle: p.Handle, Title: p.Title}
	if len(p.Variants) == 0 {
		return c
	}

	first := p.Variants[0]
	price := first.Price
	c.Price = &price
	c.Image = first.Image
	if IsDiscounted(first.Price, first.CompareAtPrice) {
		compareAt := *first.CompareAtPrice
		c.CompareAtPrice = &compareAt
		c.OnSale = true
	}
	return c
}
