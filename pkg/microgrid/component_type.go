package microgrid

import "fmt"

// ComponentType is a category scoped sub-classification of a component.
// Type codes are only unique within a category, every implementation reports
// the category it belongs to.
type ComponentType interface {
	fmt.Stringer
	Category() ComponentCategory
	RawCode() int32

	componentType()
}

// InverterType is the sub-type of an inverter component.
type InverterType int32

const (
	InverterTypeNone    = InverterType(RawInverterTypeUnspecified)
	InverterTypeBattery = InverterType(RawInverterTypeBattery)
	InverterTypeSolar   = InverterType(RawInverterTypeSolar)
	InverterTypeHybrid  = InverterType(RawInverterTypeHybrid)
)

// inverter type names
const (
	InverterTypeNoneStr    = "none"
	InverterTypeBatteryStr = "battery"
	InverterTypeSolarStr   = "solar"
	InverterTypeHybridStr  = "hybrid"
)

var inverterTypes = []InverterType{
	InverterTypeNone,
	InverterTypeBattery,
	InverterTypeSolar,
	InverterTypeHybrid,
}

// AllInverterTypes returns every inverter type variant.
func AllInverterTypes() []InverterType {
	return append([]InverterType(nil), inverterTypes...)
}

func (t InverterType) Category() ComponentCategory {
	return ComponentCategoryInverter
}

func (t InverterType) RawCode() int32 {
	return int32(t)
}

func (t InverterType) String() string {
	switch t {
	case InverterTypeNone:
		return InverterTypeNoneStr
	case InverterTypeBattery:
		return InverterTypeBatteryStr
	case InverterTypeSolar:
		return InverterTypeSolarStr
	case InverterTypeHybrid:
		return InverterTypeHybridStr
	default:
		return fmt.Sprintf("unknown(%d)", int32(t))
	}
}

func (InverterType) componentType() {}

// ResolveType decodes rawTypeCode in the scope of category.
//
// Only inverters carry a sub-type today. For any other category the result is
// nil whatever the code is, since the same numbers mean different things for
// other categories (EV charger types 1..3 collide with inverter types 1..3).
// An inverter code without a variant also resolves to nil.
func ResolveType(category ComponentCategory, rawTypeCode int32) ComponentType {
	switch category {
	case ComponentCategoryInverter:
		for _, t := range inverterTypes {
			if t.RawCode() == rawTypeCode {
				return t
			}
		}
		return nil
	default:
		return nil
	}
}

func rawTypeCode(category ComponentCategory, metadata RawComponentMetadata) int32 {
	switch category {
	case ComponentCategoryInverter:
		if metadata.Inverter != nil {
			return metadata.Inverter.Type
		}
	case ComponentCategoryEVCharger:
		if metadata.EVCharger != nil {
			return metadata.EVCharger.Type
		}
	}
	return 0
}

// ensure interface compliance
var _ ComponentType = InverterType(0)
