package variant

import (
	"testing"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShirtSelector(t *testing.T, observers ...Observer) *Selector {
	t.Helper()
	idx, err := NewIndex(shirtOptions(), shirtVariants())
	require.NoError(t, err)
	return NewSelector(idx, observers...)
}

func TestNewSelector_SeedsFromFirstVariant(t *testing.T) {
	var published []Resolution
	s := newShirtSelector(t, ObserverFunc(func(r Resolution) { published = append(published, r) }))

	assert.Equal(t, Selection{"Color": "Red", "Size": "S", "Material": "Cotton"}, s.Selection())
	require.True(t, s.Active().Found())
	assert.Equal(t, "gid://shop/ProductVariant/Red-S", s.Active().Variant.ID)
	require.Len(t, published, 1, "initial state is published once")
}

func TestNewSelector_SeedsFromOptionsWithoutVariants(t *testing.T) {
	idx, err := NewIndex(shirtOptions(), nil)
	require.NoError(t, err)

	s := NewSelector(idx)

	assert.Equal(t, Selection{"Color": "Red", "Size": "S", "Material": "Cotton"}, s.Selection())
	assert.False(t, s.Active().Found())
}

func TestSelector_SetOption(t *testing.T) {
	var published []Resolution
	s := newShirtSelector(t, ObserverFunc(func(r Resolution) { published = append(published, r) }))

	require.NoError(t, s.SetOption("Color", "Blue"))
	require.NoError(t, s.SetOption("Size", "M"))

	assert.Equal(t, Selection{"Color": "Blue", "Size": "M", "Material": "Cotton"}, s.Selection())
	require.True(t, s.Active().Found())
	assert.Equal(t, "gid://shop/ProductVariant/Blue-M", s.Active().Variant.ID)

	// one publish for init plus one per transition
	require.Len(t, published, 3)
	assert.Equal(t, "gid://shop/ProductVariant/Blue-S", published[1].Variant.ID)
	assert.Equal(t, "gid://shop/ProductVariant/Blue-M", published[2].Variant.ID)
}

func TestSelector_SetOption_LeavesOtherEntriesUntouched(t *testing.T) {
	s := newShirtSelector(t)
	require.NoError(t, s.SetOption("Size", "M"))

	sel := s.Selection()
	assert.Equal(t, "Red", sel["Color"])
	assert.Equal(t, "Cotton", sel["Material"])
}

func TestSelector_SetOption_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		opt   string
		value string
	}{
		{"unknown option", "Fit", "Slim"},
		{"value not permitted", "Color", "Green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			s := newShirtSelector(t)
			s.Subscribe(ObserverFunc(func(Resolution) { calls++ }))
			before := s.Selection()

			err := s.SetOption(tt.opt, tt.value)

			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			assert.Equal(t, before, s.Selection())
			assert.Zero(t, calls, "rejected transitions publish nothing")
		})
	}
}

func TestSelector_PublishesNotFound(t *testing.T) {
	var variants []domain.Variant
	for _, v := range shirtVariants() {
		if v.ID != "gid://shop/ProductVariant/Blue-M" {
			variants = append(variants, v)
		}
	}
	idx, err := NewIndex(shirtOptions(), variants)
	require.NoError(t, err)

	var last Resolution
	s := NewSelector(idx, ObserverFunc(func(r Resolution) { last = r }))
	require.NoError(t, s.SetOptions(map[string]string{"Color": "Blue", "Size": "M"}))

	assert.False(t, last.Found())
	assert.Nil(t, last.Variant)
	assert.Equal(t, "Blue", last.Selection["Color"])
	assert.Equal(t, "M", last.Selection["Size"])
}

func TestSelector_SetOptions_RejectsUnknownBeforeApplying(t *testing.T) {
	s := newShirtSelector(t)

	err := s.SetOptions(map[string]string{"Color": "Blue", "Fit": "Slim"})

	require.Error(t, err)
	assert.Equal(t, "Red", s.Selection()["Color"])
}

func TestSelector_SelectionIsACopy(t *testing.T) {
	s := newShirtSelector(t)
	sel := s.Selection()
	sel["Color"] = "Blue"

	assert.Equal(t, "Red", s.Selection()["Color"])
}

func TestSelector_Controls_SkipSingleValueOptions(t *testing.T) {
	s := newShirtSelector(t)
	require.NoError(t, s.SetOption("Size", "M"))

	controls := s.Controls()

	require.Len(t, controls, 2)
	assert.Equal(t, "Color", controls[0].Name)
	assert.Equal(t, []ControlValue{{Value: "Red", Checked: true}, {Value: "Blue"}}, controls[0].Values)
	assert.Equal(t, "Size", controls[1].Name)
	assert.Equal(t, []ControlValue{{Value: "S"}, {Value: "M", Checked: true}}, controls[1].Values)
}
