package microgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCategoryKnownCodes(t *testing.T) {
	cases := map[RawComponentCategory]ComponentCategory{
		RawComponentCategoryUnspecified: ComponentCategoryUnspecified,
		RawComponentCategoryGrid:        ComponentCategoryGrid,
		RawComponentCategoryMeter:       ComponentCategoryMeter,
		RawComponentCategoryInverter:    ComponentCategoryInverter,
		RawComponentCategoryBattery:     ComponentCategoryBattery,
		RawComponentCategoryEVCharger:   ComponentCategoryEVCharger,
		RawComponentCategoryCHP:         ComponentCategoryCHP,
	}
	for raw, want := range cases {
		got, err := ResolveCategory(raw)
		require.NoError(t, err, "code %d", raw)
		assert.Equal(t, want, got, "code %d", raw)
		assert.Equal(t, raw, got.RawCode())
	}
}

func TestResolveCategorySensorFails(t *testing.T) {
	_, err := ResolveCategory(RawComponentCategorySensor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestResolveCategoryUnmodelledCodes(t *testing.T) {
	for _, raw := range []RawComponentCategory{
		RawComponentCategoryConverter,
		RawComponentCategoryCryptoMiner,
		RawComponentCategoryElectrolyzer,
		42,
		-1,
	} {
		got, err := ResolveCategory(raw)
		require.NoError(t, err)
		assert.Equal(t, ComponentCategoryUnspecified, got, "code %d", raw)
	}
}

func TestCategoryNames(t *testing.T) {
	for _, c := range AllComponentCategories() {
		parsed, err := ParseComponentCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	assert.Equal(t, "ev_charger", ComponentCategoryEVCharger.String())
	assert.Equal(t, "unspecified(4)", ComponentCategory(4).String())

	_, err := ParseComponentCategory("sensor")
	assert.Error(t, err)
}

func TestCategoryText(t *testing.T) {
	text, err := ComponentCategoryBattery.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "battery", string(text))

	var c ComponentCategory
	require.NoError(t, c.UnmarshalText([]byte("inverter")))
	assert.Equal(t, ComponentCategoryInverter, c)
	assert.Error(t, c.UnmarshalText([]byte("nope")))
}
