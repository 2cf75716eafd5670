package microgrid

import (
	"fmt"
	"math"
	"time"
)

// ComponentData is a decoded data sample of one component.
type ComponentData interface {
	ComponentId() ComponentId
	Timestamp() time.Time
	// Metric returns the value of id. ok is false when the sample does not
	// carry the metric or the value is not available.
	Metric(id ComponentMetricId) (value float64, ok bool)
	// MetricIds lists the metrics this kind of sample can carry.
	MetricIds() []ComponentMetricId
}

// ComponentError is an error reported by a component.
type ComponentError struct {
	Code int32
	Msg  string
}

type sample struct {
	componentId ComponentId
	timestamp   time.Time
}

func (s sample) ComponentId() ComponentId {
	return s.componentId
}

func (s sample) Timestamp() time.Time {
	return s.timestamp
}

// ACData holds the AC side measurements shared by meters, inverters and
// EV chargers.
type ACData struct {
	ActivePower         float64
	ActivePowerPerPhase [3]float64
	CurrentPerPhase     [3]float64
	VoltagePerPhase     [3]float64
	Frequency           float64
}

// ActivePowerBounds are the system bounds of the active power.
type ActivePowerBounds struct {
	InclusionLowerBound float64
	ExclusionLowerBound float64
	ExclusionUpperBound float64
	InclusionUpperBound float64
}

type MeterData struct {
	sample
	ACData
}

type InverterData struct {
	sample
	ACData
	ActivePowerBounds
	ComponentState int32
	Errors         []ComponentError
}

type EVChargerData struct {
	sample
	ACData
	ActivePowerBounds
	ComponentState int32
	CableState     int32
	Errors         []ComponentError
}

type BatteryData struct {
	sample
	Soc           float64
	SocLowerBound float64
	SocUpperBound float64
	// Capacity in Wh.
	Capacity                 float64
	PowerInclusionLowerBound float64
	PowerExclusionLowerBound float64
	PowerExclusionUpperBound float64
	PowerInclusionUpperBound float64
	Temperature              float64
	ComponentState           int32
	RelayState               int32
	Errors                   []ComponentError
}

var acMetricIds = []ComponentMetricId{
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
}

var activePowerBoundsMetricIds = []ComponentMetricId{
	MetricActivePowerInclusionLowerBound,
	MetricActivePowerExclusionLowerBound,
	MetricActivePowerExclusionUpperBound,
	MetricActivePowerInclusionUpperBound,
}

var batteryMetricIds = []ComponentMetricId{
	MetricSoc,
	MetricSocLowerBound,
	MetricSocUpperBound,
	MetricCapacity,
	MetricPowerInclusionLowerBound,
	MetricPowerExclusionLowerBound,
	MetricPowerExclusionUpperBound,
	MetricPowerInclusionUpperBound,
	MetricTemperature,
}

// NewComponentData decodes a wire data sample. The payload decides the kind
// of the sample; a sample without payload fails with ErrNoComponentData.
// Bounds missing on the wire decode to NaN.
func NewComponentData(raw RawComponentData) (ComponentData, error) {
	s := sample{
		componentId: ComponentId(raw.Id),
		timestamp:   raw.Timestamp.UTC(),
	}
	switch {
	case raw.Meter != nil:
		return MeterData{
			sample: s,
			ACData: acDataFromWire(raw.Meter.AC),
		}, nil
	case raw.Inverter != nil:
		return InverterData{
			sample:            s,
			ACData:            acDataFromWire(raw.Inverter.AC),
			ActivePowerBounds: activePowerBoundsFromWire(raw.Inverter.AC.PowerActive),
			ComponentState:    raw.Inverter.ComponentState,
			Errors:            errorsFromWire(raw.Inverter.Errors),
		}, nil
	case raw.EVCharger != nil:
		return EVChargerData{
			sample:            s,
			ACData:            acDataFromWire(raw.EVCharger.AC),
			ActivePowerBounds: activePowerBoundsFromWire(raw.EVCharger.AC.PowerActive),
			ComponentState:    raw.EVCharger.ComponentState,
			CableState:        raw.EVCharger.CableState,
			Errors:            errorsFromWire(raw.EVCharger.Errors),
		}, nil
	case raw.Battery != nil:
		b := raw.Battery
		socLower, socUpper := bounds(b.Soc.SystemInclusionBounds)
		inclLower, inclUpper := bounds(b.DCPower.SystemInclusionBounds)
		exclLower, exclUpper := bounds(b.DCPower.SystemExclusionBounds)
		return BatteryData{
			sample:                   s,
			Soc:                      b.Soc.Value,
			SocLowerBound:            socLower,
			SocUpperBound:            socUpper,
			Capacity:                 b.Capacity,
			PowerInclusionLowerBound: inclLower,
			PowerExclusionLowerBound: exclLower,
			PowerExclusionUpperBound: exclUpper,
			PowerInclusionUpperBound: inclUpper,
			Temperature:              b.Temperature.Value,
			ComponentState:           b.ComponentState,
			RelayState:               b.RelayState,
			Errors:                   errorsFromWire(b.Errors),
		}, nil
	default:
		return nil, fmt.Errorf("%w for component %d", ErrNoComponentData, raw.Id)
	}
}

func acDataFromWire(ac RawAC) ACData {
	return ACData{
		ActivePower:         ac.PowerActive.Value,
		ActivePowerPerPhase: [3]float64{ac.Phase1.PowerActive.Value, ac.Phase2.PowerActive.Value, ac.Phase3.PowerActive.Value},
		CurrentPerPhase:     [3]float64{ac.Phase1.Current.Value, ac.Phase2.Current.Value, ac.Phase3.Current.Value},
		VoltagePerPhase:     [3]float64{ac.Phase1.Voltage.Value, ac.Phase2.Voltage.Value, ac.Phase3.Voltage.Value},
		Frequency:           ac.Frequency.Value,
	}
}

func activePowerBoundsFromWire(power RawMetric) ActivePowerBounds {
	inclLower, inclUpper := bounds(power.SystemInclusionBounds)
	exclLower, exclUpper := bounds(power.SystemExclusionBounds)
	return ActivePowerBounds{
		InclusionLowerBound: inclLower,
		ExclusionLowerBound: exclLower,
		ExclusionUpperBound: exclUpper,
		InclusionUpperBound: inclUpper,
	}
}

func bounds(b *RawBounds) (float64, float64) {
	if b == nil {
		return math.NaN(), math.NaN()
	}
	return b.Lower, b.Upper
}

func errorsFromWire(raw []RawComponentError) []ComponentError {
	if len(raw) == 0 {
		return nil
	}
	errs := make([]ComponentError, 0, len(raw))
	for _, e := range raw {
		errs = append(errs, ComponentError{Code: e.Code, Msg: e.Msg})
	}
	return errs
}

func available(value float64) (float64, bool) {
	if math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

func (d ACData) metric(id ComponentMetricId) (float64, bool) {
	switch id {
	case MetricActivePower:
		return available(d.ActivePower)
	case MetricActivePowerPhase1:
		return available(d.ActivePowerPerPhase[0])
	case MetricActivePowerPhase2:
		return available(d.ActivePowerPerPhase[1])
	case MetricActivePowerPhase3:
		return available(d.ActivePowerPerPhase[2])
	case MetricCurrentPhase1:
		return available(d.CurrentPerPhase[0])
	case MetricCurrentPhase2:
		return available(d.CurrentPerPhase[1])
	case MetricCurrentPhase3:
		return available(d.CurrentPerPhase[2])
	case MetricVoltagePhase1:
		return available(d.VoltagePerPhase[0])
	case MetricVoltagePhase2:
		return available(d.VoltagePerPhase[1])
	case MetricVoltagePhase3:
		return available(d.VoltagePerPhase[2])
	case MetricFrequency:
		return available(d.Frequency)
	default:
		return 0, false
	}
}

func (b ActivePowerBounds) metric(id ComponentMetricId) (float64, bool) {
	switch id {
	case MetricActivePowerInclusionLowerBound:
		return available(b.InclusionLowerBound)
	case MetricActivePowerExclusionLowerBound:
		return available(b.ExclusionLowerBound)
	case MetricActivePowerExclusionUpperBound:
		return available(b.ExclusionUpperBound)
	case MetricActivePowerInclusionUpperBound:
		return available(b.InclusionUpperBound)
	default:
		return 0, false
	}
}

func (d MeterData) Metric(id ComponentMetricId) (float64, bool) {
	return d.ACData.metric(id)
}

func (d MeterData) MetricIds() []ComponentMetricId {
	return append([]ComponentMetricId(nil), acMetricIds...)
}

func (d InverterData) Metric(id ComponentMetricId) (float64, bool) {
	if v, ok := d.ACData.metric(id); ok {
		return v, true
	}
	return d.ActivePowerBounds.metric(id)
}

func (d InverterData) MetricIds() []ComponentMetricId {
	return append(append([]ComponentMetricId(nil), acMetricIds...), activePowerBoundsMetricIds...)
}

func (d EVChargerData) Metric(id ComponentMetricId) (float64, bool) {
	if v, ok := d.ACData.metric(id); ok {
		return v, true
	}
	return d.ActivePowerBounds.metric(id)
}

func (d EVChargerData) MetricIds() []ComponentMetricId {
	return append(append([]ComponentMetricId(nil), acMetricIds...), activePowerBoundsMetricIds...)
}

func (d BatteryData) Metric(id ComponentMetricId) (float64, bool) {
	switch id {
	case MetricSoc:
		return available(d.Soc)
	case MetricSocLowerBound:
		return available(d.SocLowerBound)
	case MetricSocUpperBound:
		return available(d.SocUpperBound)
	case MetricCapacity:
		return available(d.Capacity)
	case MetricPowerInclusionLowerBound:
		return available(d.PowerInclusionLowerBound)
	case MetricPowerExclusionLowerBound:
		return available(d.PowerExclusionLowerBound)
	case MetricPowerExclusionUpperBound:
		return available(d.PowerExclusionUpperBound)
	case MetricPowerInclusionUpperBound:
		return available(d.PowerInclusionUpperBound)
	case MetricTemperature:
		return available(d.Temperature)
	default:
		return 0, false
	}
}

func (d BatteryData) MetricIds() []ComponentMetricId {
	return append([]ComponentMetricId(nil), batteryMetricIds...)
}

// MetricIdsForCategory lists the metrics data samples of category carry.
func MetricIdsForCategory(category ComponentCategory) []ComponentMetricId {
	switch category {
	case ComponentCategoryMeter, ComponentCategoryGrid:
		return MeterData{}.MetricIds()
	case ComponentCategoryInverter:
		return InverterData{}.MetricIds()
	case ComponentCategoryEVCharger:
		return EVChargerData{}.MetricIds()
	case ComponentCategoryBattery:
		return BatteryData{}.MetricIds()
	default:
		return nil
	}
}

// ensure interface compliance
var (
	_ ComponentData = MeterData{}
	_ ComponentData = InverterData{}
	_ ComponentData = EVChargerData{}
	_ ComponentData = BatteryData{}
)
