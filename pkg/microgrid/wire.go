package microgrid

import "time"

// RawComponentCategory is the category code as sent by the microgrid API.
type RawComponentCategory int32

const (
	RawComponentCategoryUnspecified  RawComponentCategory = 0
	RawComponentCategoryGrid         RawComponentCategory = 1
	RawComponentCategoryMeter        RawComponentCategory = 2
	RawComponentCategoryInverter     RawComponentCategory = 3
	RawComponentCategoryConverter    RawComponentCategory = 4
	RawComponentCategoryBattery      RawComponentCategory = 5
	RawComponentCategoryEVCharger    RawComponentCategory = 6
	RawComponentCategorySensor       RawComponentCategory = 7
	RawComponentCategoryCryptoMiner  RawComponentCategory = 8
	RawComponentCategoryElectrolyzer RawComponentCategory = 9
	RawComponentCategoryCHP          RawComponentCategory = 10
)

// inverter type codes
const (
	RawInverterTypeUnspecified int32 = 0
	RawInverterTypeBattery     int32 = 1
	RawInverterTypeSolar       int32 = 2
	RawInverterTypeHybrid      int32 = 3
)

// EV charger type codes. They share the numeric range of the inverter types.
const (
	RawEVChargerTypeUnspecified int32 = 0
	RawEVChargerTypeAC          int32 = 1
	RawEVChargerTypeDC          int32 = 2
	RawEVChargerTypeHybrid      int32 = 3
)

type RawInverterMetadata struct {
	Type int32 `yaml:"type" json:"type"`
}

type RawEVChargerMetadata struct {
	Type int32 `yaml:"type" json:"type"`
}

type RawGridMetadata struct {
	RatedFuseCurrent float64 `yaml:"rated_fuse_current" json:"rated_fuse_current"`
}

// RawComponentMetadata holds the per category metadata. At most one field is
// expected to be set, matching the category of the enclosing component.
type RawComponentMetadata struct {
	Inverter  *RawInverterMetadata  `yaml:"inverter,omitempty" json:"inverter,omitempty"`
	EVCharger *RawEVChargerMetadata `yaml:"ev_charger,omitempty" json:"ev_charger,omitempty"`
	Grid      *RawGridMetadata      `yaml:"grid,omitempty" json:"grid,omitempty"`
}

type RawComponent struct {
	Id       uint64               `yaml:"id" json:"id"`
	Name     string               `yaml:"name" json:"name"`
	Category RawComponentCategory `yaml:"category" json:"category"`
	Metadata RawComponentMetadata `yaml:"metadata" json:"metadata"`
}

type RawBounds struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
}

type RawMetric struct {
	Value                 float64    `yaml:"value" json:"value"`
	SystemInclusionBounds *RawBounds `yaml:"system_inclusion_bounds,omitempty" json:"system_inclusion_bounds,omitempty"`
	SystemExclusionBounds *RawBounds `yaml:"system_exclusion_bounds,omitempty" json:"system_exclusion_bounds,omitempty"`
}

type RawACPhase struct {
	Current     RawMetric `yaml:"current" json:"current"`
	Voltage     RawMetric `yaml:"voltage" json:"voltage"`
	PowerActive RawMetric `yaml:"power_active" json:"power_active"`
}

type RawAC struct {
	Frequency   RawMetric  `yaml:"frequency" json:"frequency"`
	PowerActive RawMetric  `yaml:"power_active" json:"power_active"`
	Phase1      RawACPhase `yaml:"phase_1" json:"phase_1"`
	Phase2      RawACPhase `yaml:"phase_2" json:"phase_2"`
	Phase3      RawACPhase `yaml:"phase_3" json:"phase_3"`
}

type RawComponentError struct {
	Code int32  `yaml:"code" json:"code"`
	Msg  string `yaml:"msg" json:"msg"`
}

type RawMeterData struct {
	AC RawAC `yaml:"ac" json:"ac"`
}

type RawInverterData struct {
	ComponentState int32               `yaml:"component_state" json:"component_state"`
	Errors         []RawComponentError `yaml:"errors" json:"errors"`
	AC             RawAC               `yaml:"ac" json:"ac"`
}

type RawBatteryData struct {
	ComponentState int32               `yaml:"component_state" json:"component_state"`
	RelayState     int32               `yaml:"relay_state" json:"relay_state"`
	Errors         []RawComponentError `yaml:"errors" json:"errors"`
	// Soc inclusion bounds are the lower and upper soc limits.
	Soc         RawMetric `yaml:"soc" json:"soc"`
	Capacity    float64   `yaml:"capacity" json:"capacity"`
	DCPower     RawMetric `yaml:"dc_power" json:"dc_power"`
	Temperature RawMetric `yaml:"temperature" json:"temperature"`
}

type RawEVChargerData struct {
	ComponentState int32               `yaml:"component_state" json:"component_state"`
	CableState     int32               `yaml:"cable_state" json:"cable_state"`
	Errors         []RawComponentError `yaml:"errors" json:"errors"`
	AC             RawAC               `yaml:"ac" json:"ac"`
}

// RawComponentData is one data sample. Exactly one of the payload fields is
// expected to be set.
type RawComponentData struct {
	Id        uint64            `yaml:"id" json:"id"`
	Timestamp time.Time         `yaml:"ts" json:"ts"`
	Meter     *RawMeterData     `yaml:"meter,omitempty" json:"meter,omitempty"`
	Inverter  *RawInverterData  `yaml:"inverter,omitempty" json:"inverter,omitempty"`
	Battery   *RawBatteryData   `yaml:"battery,omitempty" json:"battery,omitempty"`
	EVCharger *RawEVChargerData `yaml:"ev_charger,omitempty" json:"ev_charger,omitempty"`
}
