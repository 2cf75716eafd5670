package microgrid

import "fmt"

// ComponentMetricId names a scalar measurement of a component. The string
// value is the external key: it is used for lookups and serialization
// elsewhere and must never be renamed or reused.
type ComponentMetricId string

const (
	MetricActivePower       ComponentMetricId = "active_power"
	MetricActivePowerPhase1 ComponentMetricId = "active_power_phase_1"
	MetricActivePowerPhase2 ComponentMetricId = "active_power_phase_2"
	MetricActivePowerPhase3 ComponentMetricId = "active_power_phase_3"

	MetricCurrentPhase1 ComponentMetricId = "current_phase_1"
	MetricCurrentPhase2 ComponentMetricId = "current_phase_2"
	MetricCurrentPhase3 ComponentMetricId = "current_phase_3"

	MetricVoltagePhase1 ComponentMetricId = "voltage_phase_1"
	MetricVoltagePhase2 ComponentMetricId = "voltage_phase_2"
	MetricVoltagePhase3 ComponentMetricId = "voltage_phase_3"

	MetricFrequency ComponentMetricId = "frequency"

	MetricSoc           ComponentMetricId = "soc"
	MetricSocLowerBound ComponentMetricId = "soc_lower_bound"
	MetricSocUpperBound ComponentMetricId = "soc_upper_bound"
	MetricCapacity      ComponentMetricId = "capacity"

	MetricPowerInclusionLowerBound ComponentMetricId = "power_inclusion_lower_bound"
	MetricPowerExclusionLowerBound ComponentMetricId = "power_exclusion_lower_bound"
	MetricPowerExclusionUpperBound ComponentMetricId = "power_exclusion_upper_bound"
	MetricPowerInclusionUpperBound ComponentMetricId = "power_inclusion_upper_bound"

	MetricActivePowerInclusionLowerBound ComponentMetricId = "active_power_inclusion_lower_bound"
	MetricActivePowerExclusionLowerBound ComponentMetricId = "active_power_exclusion_lower_bound"
	MetricActivePowerExclusionUpperBound ComponentMetricId = "active_power_exclusion_upper_bound"
	MetricActivePowerInclusionUpperBound ComponentMetricId = "active_power_inclusion_upper_bound"

	MetricTemperature ComponentMetricId = "temperature"
)

// units
const (
	UnitWatt     = "W"
	UnitAmpere   = "A"
	UnitVolt     = "V"
	UnitHertz    = "Hz"
	UnitPercent  = "%"
	UnitWattHour = "Wh"
	UnitCelsius  = "°C"
)

var componentMetricIds = []ComponentMetricId{
	MetricActivePower,
	MetricActivePowerPhase1,
	MetricActivePowerPhase2,
	MetricActivePowerPhase3,
	MetricCurrentPhase1,
	MetricCurrentPhase2,
	MetricCurrentPhase3,
	MetricVoltagePhase1,
	MetricVoltagePhase2,
	MetricVoltagePhase3,
	MetricFrequency,
	MetricSoc,
	MetricSocLowerBound,
	MetricSocUpperBound,
	MetricCapacity,
	MetricPowerInclusionLowerBound,
	MetricPowerExclusionLowerBound,
	MetricPowerExclusionUpperBound,
	MetricPowerInclusionUpperBound,
	MetricActivePowerInclusionLowerBound,
	MetricActivePowerExclusionLowerBound,
	MetricActivePowerExclusionUpperBound,
	MetricActivePowerInclusionUpperBound,
	MetricTemperature,
}

// AllComponentMetricIds returns every metric id in declaration order.
func AllComponentMetricIds() []ComponentMetricId {
	return append([]ComponentMetricId(nil), componentMetricIds...)
}

// ParseComponentMetricId maps an external key to its metric id.
func ParseComponentMetricId(key string) (ComponentMetricId, error) {
	for _, id := range componentMetricIds {
		if string(id) == key {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, key)
}

// Key returns the external key of id.
func (id ComponentMetricId) Key() string {
	return string(id)
}

func (id ComponentMetricId) String() string {
	return string(id)
}

// IsValid reports whether id is one of the declared metric ids.
func (id ComponentMetricId) IsValid() bool {
	_, err := ParseComponentMetricId(string(id))
	return err == nil
}

// Unit returns the unit the metric is reported in.
func (id ComponentMetricId) Unit() string {
	switch id {
	case MetricCurrentPhase1, MetricCurrentPhase2, MetricCurrentPhase3:
		return UnitAmpere
	case MetricVoltagePhase1, MetricVoltagePhase2, MetricVoltagePhase3:
		return UnitVolt
	case MetricFrequency:
		return UnitHertz
	case MetricSoc, MetricSocLowerBound, MetricSocUpperBound:
		return UnitPercent
	case MetricCapacity:
		return UnitWattHour
	case MetricTemperature:
		return UnitCelsius
	default:
		if id.IsValid() {
			return UnitWatt
		}
		return ""
	}
}
