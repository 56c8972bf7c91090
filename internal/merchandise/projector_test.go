package merchandise

import (
	"testing"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/variant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), CurrencyCode: "USD"}
}

func usdPtr(amount string) *domain.Money {
	m := usd(amount)
	return &m
}

func mm(n float64) *float64 { return &n }

func tshirtOptions() []domain.Option {
	return []domain.Option{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"S", "M"}},
	}
}

// tshirtVariants covers all four combinations at $10, all available.
// edit may adjust a variant before it is returned.
func tshirtVariants(edit func(v *domain.Variant)) []domain.Variant {
	var out []domain.Variant
	for _, color := range []string{"Red", "Blue"} {
		for _, size := range []string{"S", "M"} {
			v := domain.Variant{
				ID:               color + "/" + size,
				SelectedOptions:  map[string]string{"Color": color, "Size": size},
				Price:            usd("10.00"),
				AvailableForSale: true,
			}
			if edit != nil {
				edit(&v)
			}
			out = append(out, v)
		}
	}
	return out
}

func selectBlueM(t *testing.T, variants []domain.Variant, content domain.ContentIndex) Snapshot {
	t.Helper()
	idx, err := variant.NewIndex(tshirtOptions(), variants)
	require.NoError(t, err)

	projector := NewProjector(content, DefaultPolicy())
	sel := variant.NewSelector(idx, projector)
	require.NoError(t, sel.SetOption("Color", "Blue"))
	require.NoError(t, sel.SetOption("Size", "M"))
	return projector.Snapshot()
}

func TestScenario_InStockFullPrice(t *testing.T) {
	snap := selectBlueM(t, tshirtVariants(nil), nil)

	require.True(t, snap.Purchasable)
	assert.Equal(t, "Blue/M", snap.Variant.ID)
	assert.False(t, snap.IsDiscounted)
	assert.False(t, snap.IsOutOfStock)
	assert.Equal(t, AvailabilityInStock, snap.Availability)
	assert.Empty(t, snap.AvailabilityMessage)
	assert.Equal(t, Action{Visible: true, Enabled: true, Label: "Add to cart"}, snap.AddToCart)
	assert.Equal(t, Action{Visible: true, Enabled: true, Label: "Buy it now"}, snap.BuyNow)
	require.NotNil(t, snap.Price)
	assert.True(t, snap.Price.Amount.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, "USD", snap.Price.CurrencyCode)
	assert.Nil(t, snap.CompareAtPrice)
}

func TestScenario_DiscountedAndSoldOut(t *testing.T) {
	variants := tshirtVariants(func(v *domain.Variant) {
		if v.ID == "Blue/M" {
			v.CompareAtPrice = usdPtr("15.00")
			v.AvailableForSale = false
		}
	})

	snap := selectBlueM(t, variants, nil)

	require.True(t, snap.Purchasable)
	assert.True(t, snap.IsDiscounted)
	assert.True(t, snap.IsOutOfStock)
	assert.Equal(t, AvailabilitySoldOut, snap.Availability)
	assert.Equal(t, Action{Visible: true, Enabled: false, Label: "Sold out"}, snap.AddToCart)
	assert.False(t, snap.BuyNow.Visible)
	assert.False(t, snap.BuyNow.Enabled)
	assert.Equal(t, DefaultBackorderMessage, snap.AvailabilityMessage)
	require.NotNil(t, snap.CompareAtPrice)
	assert.True(t, snap.CompareAtPrice.Amount.Equal(decimal.RequireFromString("15")))
}

func TestScenario_UnenumeratedValueHasNoPrice(t *testing.T) {
	idx, err := variant.NewIndex(tshirtOptions(), tshirtVariants(nil))
	require.NoError(t, err)

	sel := variant.Selection{"Color": "Green", "Size": "M"}
	_, err = idx.Resolve(sel)
	require.ErrorIs(t, err, variant.ErrNotFound)

	snap := Project(variant.Resolution{Selection: sel}, nil, DefaultPolicy())

	assert.False(t, snap.Purchasable)
	assert.Nil(t, snap.Variant)
	assert.Nil(t, snap.Price)
	assert.Nil(t, snap.CompareAtPrice)
	assert.False(t, snap.IsDiscounted)
	assert.Equal(t, AvailabilityUnavailable, snap.Availability)
	assert.False(t, snap.AddToCart.Enabled)
	assert.False(t, snap.AddToCart.Visible)
	assert.False(t, snap.BuyNow.Enabled)
	assert.False(t, snap.BuyNow.Visible)
	assert.Equal(t, "Green", snap.Selection["Color"])
}

func TestIsDiscounted(t *testing.T) {
	tests := []struct {
		name      string
		price     domain.Money
		compareAt *domain.Money
		want      bool
	}{
		{"no compare-at", usd("10"), nil, false},
		{"compare-at higher", usd("10"), usdPtr("15"), true},
		{"compare-at equal", usd("10.00"), usdPtr("10"), false},
		{"compare-at lower", usd("10"), usdPtr("8.50"), false},
		{"cents matter", usd("10.00"), usdPtr("10.01"), true},
		{"different currency", usd("10"), &domain.Money{Amount: decimal.NewFromInt(15), CurrencyCode: "EUR"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiscounted(tt.price, tt.compareAt))
		})
	}
}

func TestProject_OutOfStockIgnoresPriceState(t *testing.T) {
	for _, compareAt := range []*domain.Money{nil, usdPtr("10"), usdPtr("20")} {
		v := domain.Variant{ID: "v", Price: usd("10"), CompareAtPrice: compareAt}
		snap := Project(variant.Resolution{Variant: &v}, nil, DefaultPolicy())

		assert.True(t, snap.AddToCart.Visible)
		assert.False(t, snap.AddToCart.Enabled)
		assert.False(t, snap.BuyNow.Visible)
	}
}

func TestProject_BackorderMessageFromPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.BackorderMessage = "Ships in March"
	v := domain.Variant{ID: "v", Price: usd("10")}

	snap := Project(variant.Resolution{Variant: &v}, nil, policy)

	assert.Equal(t, "Ships in March", snap.AvailabilityMessage)
}

func TestProject_ContentJoin(t *testing.T) {
	v := domain.Variant{ID: "gid://shop/ProductVariant/1", Price: usd("10"), AvailableForSale: true}

	t.Run("record with dimensions", func(t *testing.T) {
		content := domain.ContentIndex{
			v.ID: {VariantID: v.ID, Dimensions: &domain.Dimensions{Width: mm(300), Height: mm(400)}},
		}
		snap := Project(variant.Resolution{Variant: &v}, content, DefaultPolicy())

		require.NotNil(t, snap.Content)
		assert.Equal(t, v.ID, snap.Content.VariantID)
		assert.Equal(t, "300mm x 400mm", snap.DimensionsLabel)
	})

	t.Run("record with one dimension omits badge", func(t *testing.T) {
		content := domain.ContentIndex{
			v.ID: {VariantID: v.ID, Dimensions: &domain.Dimensions{Width: mm(300)}},
		}
		snap := Project(variant.Resolution{Variant: &v}, content, DefaultPolicy())

		require.NotNil(t, snap.Content)
		assert.Empty(t, snap.DimensionsLabel)
	})

	t.Run("record for another variant", func(t *testing.T) {
		content := domain.ContentIndex{"other": {VariantID: "other"}}
		snap := Project(variant.Resolution{Variant: &v}, content, DefaultPolicy())

		assert.Nil(t, snap.Content)
		assert.Empty(t, snap.DimensionsLabel)
		assert.True(t, snap.Purchasable)
	})

	t.Run("no content index", func(t *testing.T) {
		snap := Project(variant.Resolution{Variant: &v}, nil, DefaultPolicy())

		assert.Nil(t, snap.Content)
		assert.True(t, snap.Purchasable)
	})
}

func TestProject_DoesNotAliasVariant(t *testing.T) {
	v := domain.Variant{ID: "v", Price: usd("10"), AvailableForSale: true}
	snap := Project(variant.Resolution{Variant: &v}, nil, DefaultPolicy())

	snap.Variant.ID = "changed"
	snap.Price.CurrencyCode = "EUR"

	assert.Equal(t, "v", v.ID)
	assert.Equal(t, "USD", v.Price.CurrencyCode)
}

func TestPrimaryImage(t *testing.T) {
	variantImage := &domain.Image{URL: "https://cdn.example.com/variant.jpg"}
	preview := &domain.Image{URL: "https://cdn.example.com/preview.jpg"}
	media := []domain.Media{{ID: "m0"}, {ID: "m1", PreviewImage: preview}}

	assert.Equal(t, variantImage, PrimaryImage(&domain.Variant{Image: variantImage}, media))
	assert.Equal(t, preview, PrimaryImage(&domain.Variant{}, media))
	assert.Equal(t, preview, PrimaryImage(nil, media))
	assert.Nil(t, PrimaryImage(nil, nil))
}
