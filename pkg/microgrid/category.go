package microgrid

import (
	"fmt"
)

// ComponentCategory is the broad kind of a microgrid component. Every variant
// is bound to its wire code; the ordinal position of a constant carries no
// meaning.
type ComponentCategory int32

const (
	ComponentCategoryUnspecified = ComponentCategory(RawComponentCategoryUnspecified)
	ComponentCategoryGrid        = ComponentCategory(RawComponentCategoryGrid)
	ComponentCategoryMeter       = ComponentCategory(RawComponentCategoryMeter)
	ComponentCategoryInverter    = ComponentCategory(RawComponentCategoryInverter)
	ComponentCategoryBattery     = ComponentCategory(RawComponentCategoryBattery)
	ComponentCategoryEVCharger   = ComponentCategory(RawComponentCategoryEVCharger)
	ComponentCategoryCHP         = ComponentCategory(RawComponentCategoryCHP)
)

// category names
const (
	ComponentCategoryUnspecifiedStr = "unspecified"
	ComponentCategoryGridStr        = "grid"
	ComponentCategoryMeterStr       = "meter"
	ComponentCategoryInverterStr    = "inverter"
	ComponentCategoryBatteryStr     = "battery"
	ComponentCategoryEVChargerStr   = "ev_charger"
	ComponentCategoryCHPStr         = "chp"
)

var componentCategories = []ComponentCategory{
	ComponentCategoryUnspecified,
	ComponentCategoryGrid,
	ComponentCategoryMeter,
	ComponentCategoryInverter,
	ComponentCategoryBattery,
	ComponentCategoryEVCharger,
	ComponentCategoryCHP,
}

// AllComponentCategories returns every category variant.
func AllComponentCategories() []ComponentCategory {
	return append([]ComponentCategory(nil), componentCategories...)
}

// ResolveCategory maps a wire category code to a ComponentCategory.
// Sensors are rejected with ErrInvalidCategory, codes without a variant
// resolve to ComponentCategoryUnspecified.
func ResolveCategory(raw RawComponentCategory) (ComponentCategory, error) {
	if raw == RawComponentCategorySensor {
		return ComponentCategoryUnspecified, fmt.Errorf("%w: cannot create a component from a sensor", ErrInvalidCategory)
	}
	category := ComponentCategory(raw)
	if !category.IsKnown() {
		return ComponentCategoryUnspecified, nil
	}
	return category, nil
}

// IsKnown reports whether c is one of the declared variants.
func (c ComponentCategory) IsKnown() bool {
	for _, known := range componentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// RawCode returns the wire code of c.
func (c ComponentCategory) RawCode() RawComponentCategory {
	return RawComponentCategory(c)
}

func (c ComponentCategory) String() string {
	switch c {
	case ComponentCategoryUnspecified:
		return ComponentCategoryUnspecifiedStr
	case ComponentCategoryGrid:
		return ComponentCategoryGridStr
	case ComponentCategoryMeter:
		return ComponentCategoryMeterStr
	case ComponentCategoryInverter:
		return ComponentCategoryInverterStr
	case ComponentCategoryBattery:
		return ComponentCategoryBatteryStr
	case ComponentCategoryEVCharger:
		return ComponentCategoryEVChargerStr
	case ComponentCategoryCHP:
		return ComponentCategoryCHPStr
	default:
		return fmt.Sprintf("%s(%d)", ComponentCategoryUnspecifiedStr, int32(c))
	}
}

// ParseComponentCategory is the inverse of String for the declared variants.
func ParseComponentCategory(name string) (ComponentCategory, error) {
	for _, c := range componentCategories {
		if c.String() == name {
			return c, nil
		}
	}
	return ComponentCategoryUnspecified, fmt.Errorf("microgrid: unknown component category name %q", name)
}

func (c ComponentCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ComponentCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseComponentCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
