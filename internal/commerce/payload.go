package commerce

import (
	"fmt"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/shopspring/decimal"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse[T any] struct {
	Data   T          `json:"data"`
	Errors []gqlError `json:"errors"`
}

type productData struct {
	Product *productNode `json:"product"`
}

type productsData struct {
	Products struct {
		Nodes []productNode `json:"nodes"`
	} `json:"products"`
}

type productNode struct {
	ID              string `json:"id"`
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	Vendor          string `json:"vendor"`
	DescriptionHTML string `json:"descriptionHtml"`
	Options         []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"options"`
	Media struct {
		Nodes []mediaNode `json:"nodes"`
	} `json:"media"`
	Variants struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"variants"`
	SEO struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"seo"`
}

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imageNode struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type variantNode struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	SKU              string     `json:"sku"`
	AvailableForSale bool       `json:"availableForSale"`
	PriceV2          moneyNode  `json:"priceV2"`
	CompareAtPriceV2 *moneyNode `json:"compareAtPriceV2"`
	SelectedOptions  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"selectedOptions"`
	Image *imageNode `json:"image"`
}

type mediaNode struct {
	ID               string     `json:"id"`
	MediaContentType string     `json:"mediaContentType"`
	Alt              string     `json:"alt"`
	PreviewImage     *imageNode `json:"previewImage"`
	Image            *imageNode `json:"image"`
	Sources          []struct {
		MimeType string `json:"mimeType"`
		URL      string `json:"url"`
	} `json:"sources"`
	EmbedURL string `json:"embedUrl"`
	Host     string `json:"host"`
}

// toDomain maps the storefront payload onto domain types. When the payload
// carries no option list, options are derived from the variants' selected
// options in first-seen order.
func (n productNode) toDomain() (*domain.Product, error) {
	const op = "commerce.decode"

	p := &domain.Product{
		ID:              n.ID,
		Handle:          n.Handle,
		Title:           n.Title,
		Vendor:          n.Vendor,
		DescriptionHTML: n.DescriptionHTML,
		SEO:             domain.SEO{Title: n.SEO.Title, Description: n.SEO.Description},
		Variants:        make([]domain.Variant, 0, len(n.Variants.Nodes)),
		Media:           make([]domain.Media, 0, len(n.Media.Nodes)),
	}

	for _, o := range n.Options {
		p.Options = append(p.Options, domain.Option{Name: o.Name, Values: o.Values})
	}

	for _, vn := range n.Variants.Nodes {
		v, err := vn.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, domain.EINTEGRITY, op, fmt.Sprintf("invalid variant %s", vn.ID))
		}
		p.Variants = append(p.Variants, v)
	}

	if len(p.Options) == 0 {
		p.Options = deriveOptions(n.Variants.Nodes)
	}

	for _, mn := range n.Media.Nodes {
		p.Media = append(p.Media, mn.toDomain())
	}

	return p, nil
}

func (vn variantNode) toDomain() (domain.Variant, error) {
	price, err := vn.PriceV2.toDomain()
	if err != nil {
		return domain.Variant{}, err
	}

	v := domain.Variant{
		ID:               vn.ID,
		Title:            vn.Title,
		SKU:              vn.SKU,
		Price:            price,
		AvailableForSale: vn.AvailableForSale,
		SelectedOptions:  make(map[string]string, len(vn.SelectedOptions)),
		Image:            vn.Image.toDomain(),
	}

	if vn.CompareAtPriceV2 != nil {
		compareAt, err := vn.CompareAtPriceV2.toDomain()
		if err != nil {
			return domain.Variant{}, err
		}
		v.CompareAtPrice = &compareAt
	}

	for _, so := range vn.SelectedOptions {
		v.SelectedOptions[so.Name] = so.Value
	}

	return v, nil
}

func (m moneyNode) toDomain() (domain.Money, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("invalid amount %q: %w", m.Amount, err)
	}
	return domain.Money{Amount: amount, CurrencyCode: m.CurrencyCode}, nil
}

func (in *imageNode) toDomain() *domain.Image {
	if in == nil || in.URL == "" {
		return nil
	}
	return &domain.Image{ID: in.ID, URL: in.URL, AltText: in.AltText, Width: in.Width, Height: in.Height}
}

func (mn mediaNode) toDomain() domain.Media {
	m := domain.Media{
		ID:           mn.ID,
		ContentType:  domain.MediaContentType(mn.MediaContentType),
		Alt:          mn.Alt,
		PreviewImage: mn.PreviewImage.toDomain(),
		Image:        mn.Image.toDomain(),
		EmbedURL:     mn.EmbedURL,
		Host:         mn.Host,
	}
	for _, s := range mn.Sources {
		m.Sources = append(m.Sources, domain.MediaSource{MimeType: s.MimeType, URL: s.URL})
	}
	return m
}

func deriveOptions(variants []variantNode) []domain.Option {
	var options []domain.Option
	pos := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, v := range variants {
		for _, so := range v.SelectedOptions {
			i, ok := pos[so.Name]
			if !ok {
				i = len(options)
				pos[so.Name] = i
				seen[so.Name] = make(map[string]bool)
				options = append(options, domain.Option{Name: so.Name})
			}
			if !seen[so.Name][so.Value] {
				seen[so.Name][so.Value] = true
				options[i].Values = append(options[i].Values, so.Value)
			}
		}
	}
	return options
}
